package mail

import (
	"context"
	"fmt"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/utils"
)

const postmarkTokenHeader = "X-Postmark-Server-Token"

// PostmarkSender delivers messages with the Postmark email API.
type PostmarkSender struct {
	client *utils.HTTPClient
	token  string
}

func NewPostmarkSender(cfg config.Mail) *PostmarkSender {
	return &PostmarkSender{
		client: utils.NewHTTPClient(cfg.PostmarkURL, cfg.Timeout),
		token:  cfg.PostmarkToken,
	}
}

type postmarkEmail struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	TextBody      string `json:"TextBody,omitempty"`
	HTMLBody      string `json:"HtmlBody,omitempty"`
	MessageStream string `json:"MessageStream"`
}

type postmarkResponse struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
	MessageID string `json:"MessageID"`
}

func (p *PostmarkSender) Send(ctx context.Context, msg Message) error {
	var result postmarkResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader(postmarkTokenHeader, p.token).
		SetBody(postmarkEmail{
			From:          msg.From,
			To:            msg.To,
			Subject:       msg.Subject,
			TextBody:      msg.Text,
			HTMLBody:      msg.HTML,
			MessageStream: "outbound",
		}).
		SetResult(&result).
		SetError(&result).
		Post("/email")
	if err != nil {
		return fmt.Errorf("error calling postmark: %w", err)
	}

	if resp.IsError() || result.ErrorCode != 0 {
		return fmt.Errorf("%w: status %d, code %d: %s", ErrPostmarkRejected, resp.StatusCode(), result.ErrorCode, result.Message)
	}
	return nil
}
