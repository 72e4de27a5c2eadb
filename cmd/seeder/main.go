// Command seeder wipes the accounts and whitelist tables and imports them
// from a JSON seed file.
//
//	seeder -s seed.json [-d postgres://...]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/store"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

func main() {
	var seedPath, dsn string
	flag.StringVar(&seedPath, "s", "", "JSON seed file to import")
	flag.StringVar(&dsn, "d", "", "Database DSN, overrides STORAGE_DB_DATABASE_URI")
	flag.Parse()

	log := logger.NewLogger("oni-auth-seeder")

	if seedPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.GetStorageConfig(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	seed, err := readSeed(seedPath)
	if err != nil {
		log.Fatal().Err(err).Msg("error reading seed file")
	}

	accounts, err := seedAccounts(seed.Accounts, utils.NewArgon2Hasher(utils.DefaultArgon2Params))
	if err != nil {
		log.Fatal().Err(err).Msg("error preparing accounts")
	}

	ctx := log.WithContext(context.Background())
	storages, err := store.NewStorages(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	if err = storages.Fixtures.Reset(ctx); err != nil {
		log.Fatal().Err(err).Msg("error wiping tables")
	}
	if err = storages.Fixtures.Load(ctx, accounts, seed.Whitelist); err != nil {
		log.Fatal().Err(err).Msg("error importing seed")
	}

	log.Info().
		Int("accounts", len(accounts)).
		Int("whitelist", len(seed.Whitelist)).
		Msg("seed imported")
}

func readSeed(path string) (models.SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.SeedData{}, err
	}

	var seed models.SeedData
	if err = json.Unmarshal(raw, &seed); err != nil {
		return models.SeedData{}, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return seed, nil
}
