package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/santa-next/internal/config"
	"github.com/santa-next/internal/i18n"
)

// EmailSender 邮件发送抽象，便于测试替换
type EmailSender interface {
	SendVerifyCode(toEmail, code string, expireMinutes int, locale string) error
	SendWelcome(toEmail string, in GameEmailInput, adminLink string) error
	SendParticipantResult(toEmail, participantName string, in GameEmailInput, viewLink string) error
	SendOrganizerDrawn(toEmail string, in GameEmailInput, participantCount int, adminLink string) error
}

// EmailService 基于 SMTP 的邮件发送服务
type EmailService struct {
	cfg     *config.EmailConfig
	appName string
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, appName string) *EmailService {
	if strings.TrimSpace(appName) == "" {
		appName = "Santa-Next"
	}
	return &EmailService{cfg: cfg, appName: appName}
}

// GameEmailInput 活动相关邮件的公共输入
type GameEmailInput struct {
	GameName string
	GameDate string
	Locale   string
}

// SendVerifyCode 发送邮箱验证码
func (s *EmailService) SendVerifyCode(toEmail, code string, expireMinutes int, locale string) error {
	locale = normalizeLocale(locale)
	subject := i18n.Sprintf(locale, "email.verify_code.subject", s.appName)
	body := i18n.Sprintf(locale, "email.verify_code.body", code, expireMinutes)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendWelcome 发送活动创建成功邮件（含管理链接）
func (s *EmailService) SendWelcome(toEmail string, in GameEmailInput, adminLink string) error {
	locale := normalizeLocale(in.Locale)
	subject := i18n.Sprintf(locale, "email.welcome.subject", s.appName)
	body := i18n.Sprintf(locale, "email.welcome.body", in.GameName, in.GameDate, adminLink)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendParticipantResult 发送参与者抽签结果邮件（含专属查看链接）
func (s *EmailService) SendParticipantResult(toEmail, participantName string, in GameEmailInput, viewLink string) error {
	locale := normalizeLocale(in.Locale)
	subject := i18n.Sprintf(locale, "email.participant.subject", s.appName)
	body := i18n.Sprintf(locale, "email.participant.body", participantName, in.GameName, in.GameDate, viewLink)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendOrganizerDrawn 发送组织者抽签完成确认邮件
func (s *EmailService) SendOrganizerDrawn(toEmail string, in GameEmailInput, participantCount int, adminLink string) error {
	locale := normalizeLocale(in.Locale)
	subject := i18n.Sprintf(locale, "email.organizer.subject", s.appName)
	body := i18n.Sprintf(locale, "email.organizer.body", in.GameName, in.GameDate, participantCount, adminLink)
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return normalizeEmailSendError(sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	if s.cfg.UseTLS {
		return normalizeEmailSendError(sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	return normalizeEmailSendError(sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
}

func normalizeLocale(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	if strings.HasPrefix(l, "en") {
		return i18n.LocaleEN
	}
	return i18n.LocaleZH
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := authSMTP(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}
	if err := authSMTP(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := authSMTP(client, auth); err != nil {
		return err
	}
	return sendSMTPData(client, from, to, msg)
}

func authSMTP(client *smtp.Client, auth smtp.Auth) error {
	if auth == nil {
		return nil
	}
	if ok, _ := client.Extension("AUTH"); ok {
		return client.Auth(auth)
	}
	return nil
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		hints := []string{"recipient", "user", "mailbox", "address", "rcpt"}
		for _, hint := range hints {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
