package utils

import (
	"context"
	"log"
	"time"

	"worksafe/certificates"
	"worksafe/config"
	"worksafe/models"
	"worksafe/repository"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeRenewalScheduler starts the daily certificate-expiry reminder job
func InitializeRenewalScheduler(db *gorm.DB, mailer Mailer) (*cron.Cron, error) {
	log.Println("[RENEWAL-SCHEDULER] Initializing renewal scheduler...")

	schedule := config.AppConfig.RenewalCron
	days := config.AppConfig.RenewalNoticeDays
	repo := repository.NewHistoryRepository(db)

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		log.Println("[RENEWAL-SCHEDULER] Running renewal check...")
		sent, err := ProcessRenewalNotices(context.Background(), repo, mailer, days, time.Now())
		if err != nil {
			log.Printf("[RENEWAL-SCHEDULER] Error processing renewals: %v", err)
			return
		}
		log.Printf("[RENEWAL-SCHEDULER] Sent %d renewal notices", sent)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[RENEWAL-SCHEDULER] Renewal scheduler started - schedule %q, window %d days", schedule, days)
	return c, nil
}

// ProcessRenewalNotices mails every certificate expiring within days of today that has not been
// notified yet, then flags it. Records without a reachable address are skipped and retried next run.
func ProcessRenewalNotices(ctx context.Context, repo *repository.HistoryRepository, mailer Mailer, days int, today time.Time) (int, error) {
	from := certificates.Civil(today)
	records, err := repo.Expiring(ctx, from, from.AddDate(0, 0, days), true)
	if err != nil {
		return 0, err
	}

	log.Printf("[RENEWAL-SCHEDULER] Found %d certificates expiring soon", len(records))

	sent := 0
	for _, rec := range records {
		to, name := recipient(rec)
		if to == "" {
			log.Printf("[RENEWAL-SCHEDULER] No email for certificate %d (%s), skipped", rec.ID, rec.FiscalCode)
			continue
		}

		courseName := ""
		if rec.Course != nil {
			courseName = rec.Course.Name
		}
		subject, body := RenewalNoticeEmail(name, courseName, certificates.FormatDisplayDate(rec.ExpiresOn))
		if err := mailer.Send([]string{to}, subject, body); err != nil {
			log.Printf("[RENEWAL-SCHEDULER] Error mailing certificate %d to %s: %v", rec.ID, to, err)
			continue
		}

		if err := repo.MarkNoticeSent(ctx, rec.ID); err != nil {
			log.Printf("[RENEWAL-SCHEDULER] Error flagging certificate %d: %v", rec.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// recipient prefers the trainee's own address and falls back to the entity's
func recipient(rec models.CertificateRecord) (string, string) {
	if rec.Subject == nil {
		return "", ""
	}
	name := rec.Subject.DisplayName()
	if rec.Subject.Email != "" {
		return rec.Subject.Email, name
	}
	if rec.Subject.Entity != nil && rec.Subject.Entity.Email != "" {
		return rec.Subject.Entity.Email, name
	}
	return "", name
}
