// Command keygen prints random secrets suitable for the token and cookie
// signing keys.
//
//	keygen [-n 3]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
)

const secretBytes = 32

func main() {
	var count int
	flag.IntVar(&count, "n", 1, "number of secrets to print")
	flag.Parse()

	for range max(count, 1) {
		secret, err := generateSecret(rand.Reader)
		if err != nil {
			fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(secret)
	}
}

// generateSecret reads 32 bytes from r and returns them base64 encoded.
func generateSecret(r io.Reader) (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("error reading random bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
