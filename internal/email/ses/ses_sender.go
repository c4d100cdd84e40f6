package ses

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"clearpoint/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed ReportSender. Reports carry a CSV
// attachment, so they go out as raw MIME messages rather than the simple
// content type.
func NewSESSender(region, fromAddress, fromName string) (port.ReportSender, error) {
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

func (s *sesSender) SendCleanReport(ctx context.Context, toEmail string, report port.CleanReport) error {
	raw, err := s.buildRawMessage(toEmail, report)
	if err != nil {
		return fmt.Errorf("building report email: %w", err)
	}

	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func (s *sesSender) buildRawMessage(toEmail string, report port.CleanReport) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", s.fromName, s.fromAddress)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: Your cleaned data is ready\r\n")
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	htmlHeader := textproto.MIMEHeader{}
	htmlHeader.Set("Content-Type", `text/html; charset="UTF-8"`)
	htmlPart, err := mw.CreatePart(htmlHeader)
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(buildReportHTML(report))); err != nil {
		return nil, err
	}

	attachHeader := textproto.MIMEHeader{}
	attachHeader.Set("Content-Type", `text/csv; charset="UTF-8"`)
	attachHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.AttachmentName))
	attachHeader.Set("Content-Transfer-Encoding", "base64")
	attachPart, err := mw.CreatePart(attachHeader)
	if err != nil {
		return nil, err
	}
	if _, err := attachPart.Write(wrapBase64(report.Attachment)); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapBase64 encodes data and folds it into 76-character lines per RFC 2045.
func wrapBase64(data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	var sb strings.Builder
	for len(encoded) > 76 {
		sb.WriteString(encoded[:76])
		sb.WriteString("\r\n")
		encoded = encoded[76:]
	}
	sb.WriteString(encoded)
	return []byte(sb.String())
}

func buildReportHTML(report port.CleanReport) string {
	s := report.Summary
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your cleaned data is ready</h2>
  <p>The attached CSV contains your cleaned rows. Summary of the run:</p>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px 4px 0;">Rows in</td><td>%d</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;">Rows out</td><td>%d</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;">Duplicates removed</td><td>%d</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;">Invalid emails</td><td>%d</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;">Invalid phones</td><td>%d</td></tr>
  </table>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Clearpoint Data Services</p>
</body>
</html>`, s.RowsIn, s.RowsOut, s.DuplicatesRemoved, s.InvalidEmails, s.InvalidPhones)
}
