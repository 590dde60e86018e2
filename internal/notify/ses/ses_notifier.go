package ses

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"staybook/internal/config"
	"staybook/internal/port"
)

// EmailAPI is the subset of the SES v2 client used by the notifier.
type EmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client      EmailAPI
	fromAddress string
	fromName    string
	toAddress   string
}

// NewSESNotifier creates a new SES-backed BatchNotifier that mails the operator address.
func NewSESNotifier(cfg *config.NotifyConfig) (port.BatchNotifier, error) {
	if cfg.FromAddress == "" || cfg.OperatorAddress == "" {
		return nil, errors.New("ses notifier needs a from address and an operator address")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewSESNotifierWithClient(sesv2.NewFromConfig(awsCfg), cfg), nil
}

// NewSESNotifierWithClient creates a BatchNotifier on top of an existing SES client.
func NewSESNotifierWithClient(client EmailAPI, cfg *config.NotifyConfig) port.BatchNotifier {
	return &sesNotifier{
		client:      client,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		toAddress:   cfg.OperatorAddress,
	}
}

func (s *sesNotifier) NotifyBatchReview(ctx context.Context, notice port.BatchReviewNotice) error {
	subject := fmt.Sprintf("Reservation batch %s needs review", shortID(notice.BatchID))
	textBody := buildReviewText(notice)
	htmlBody := buildReviewHTML(notice)

	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{s.toAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type summaryLine struct {
	label string
	count int
}

func summaryLines(notice port.BatchReviewNotice) []summaryLine {
	s := notice.Summary
	return []summaryLine{
		{"Saved", s.Saved},
		{"Needs review", s.NeedsReview},
		{"Duplicates", s.Duplicates},
		{"Invalid", s.Invalid},
		{"Unknown property", s.Unresolved},
		{"Failed to save", s.FailedToSave},
	}
}

func buildReviewText(notice port.BatchReviewNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch %s processed %d file(s).\n\n", notice.BatchID, notice.FileCount)
	for _, l := range summaryLines(notice) {
		fmt.Fprintf(&b, "%s: %d\n", l.label, l.count)
	}
	if notice.ReviewURL != "" {
		fmt.Fprintf(&b, "\nReview sheet (link valid for 7 days):\n%s\n", notice.ReviewURL)
	}
	return b.String()
}

func buildReviewHTML(notice port.BatchReviewNotice) string {
	var rows strings.Builder
	for _, l := range summaryLines(notice) {
		fmt.Fprintf(&rows, `    <tr><td style="padding: 4px 12px 4px 0;">%s</td><td><strong>%d</strong></td></tr>`+"\n", l.label, l.count)
	}
	link := ""
	if notice.ReviewURL != "" {
		u := html.EscapeString(notice.ReviewURL)
		link = fmt.Sprintf(`  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #0F766E; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Open review sheet</a>
  </p>
  <p style="color: #999; font-size: 12px;">This link expires in 7 days.</p>
`, u)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Reservation batch needs review</h2>
  <p>Batch <code>%s</code> processed %d file(s).</p>
  <table>
%s  </table>
%s</body>
</html>`, html.EscapeString(notice.BatchID), notice.FileCount, rows.String(), link)
}
