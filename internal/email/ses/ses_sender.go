package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"faxfhir/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendReviewNotification(ctx context.Context, to string, n port.ReviewNotification) error {
	subject := fmt.Sprintf("Manual review needed: %s", n.Filename)
	htmlBody := buildReviewHTML(n)
	textBody := buildReviewText(n)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{to},
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

func buildReviewText(n port.ReviewNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document %s (%s) was converted with confidence score %d and needs manual review.\n", n.Filename, n.DocumentID, n.Score)
	if len(n.Comments) > 0 {
		b.WriteString("\nReview notes:\n")
		for _, c := range n.Comments {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	return b.String()
}

func buildReviewHTML(n port.ReviewNotification) string {
	var notes strings.Builder
	for _, c := range n.Comments {
		fmt.Fprintf(&notes, "<li>%s</li>", c)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Manual review needed</h2>
  <p>Document <strong>%s</strong> (ID %s) was converted with confidence score <strong>%d</strong> and is flagged for manual review.</p>
  <ul>%s</ul>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Fax-to-FHIR Conversion Service</p>
</body>
</html>`, n.Filename, n.DocumentID, n.Score, notes.String())
}
