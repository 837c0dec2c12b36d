package cron

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"carrierwatch/internal/alerting"
	"carrierwatch/internal/metrics"
	"carrierwatch/internal/notification"
	"carrierwatch/internal/register"
	"carrierwatch/internal/storage"
)

// Run starts a cron worker that periodically refreshes the day's register
// from every configured source, using a Postgres pgxpool backend and
// PostgreSQL advisory locks so that in a multi-instance deployment only one
// worker executes the job.
func Run(ctx context.Context, driver, dsn string) error {
	if driver == "" {
		driver = "postgrespool"
	}
	if driver != "postgrespool" {
		return fmt.Errorf("cron worker requires CARRIERWATCH_DB_DRIVER=postgrespool (got %q)", driver)
	}

	// Open storage via the generic factory so it still satisfies
	// storage.Storage for register.Service, then assert the concrete type to
	// gain access to advisory locks.
	stGeneric, err := storage.Open(ctx, storage.Config{Driver: driver, DSN: dsn})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer stGeneric.Close()

	pg, ok := stGeneric.(*storage.PostgresPoolStorage)
	if !ok {
		return fmt.Errorf("storage driver %q is not PostgresPoolStorage", driver)
	}

	svc := register.NewServiceWithStorage(register.NewFetcher(), register.DefaultCategoryConfig(), stGeneric)
	alerter := alerting.NewAlerter(alerting.DefaultAlertConfig())

	// Digest mail needs account storage for the email config; the pool
	// backend does not carry it, so the digest is skipped unless the backend
	// happens to.
	var notifSvc *notification.Service
	if accounts, ok := stGeneric.(storage.AccountStore); ok {
		notifSvc = notification.NewService(accounts)
	}

	// Interval is integer seconds or a cron expression, from env with a DB
	// setting override checked every control tick.
	intervalSetting := "3600"
	if raw := os.Getenv("CARRIERWATCH_CRON_INTERVAL_SECONDS"); raw != "" {
		intervalSetting = raw
	}
	if val, err := stGeneric.GetSetting(ctx, "refresh_interval_seconds"); err == nil && val != "" {
		intervalSetting = val
	}

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	getNextRun := func(setting string, lastRun time.Time) time.Time {
		if v, err := strconv.Atoi(setting); err == nil && v > 0 {
			return lastRun.Add(time.Duration(v) * time.Second)
		}
		if sched, err := cron.ParseStandard(setting); err == nil {
			return sched.Next(lastRun)
		}
		return lastRun.Add(time.Hour)
	}

	nextRun := time.Now()

	jobName := "refresh_register"
	const lockKey int64 = 7342

	log.Printf("cron worker starting, initial setting=%q driver=%s", intervalSetting, driver)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if val, err := stGeneric.GetSetting(ctx, "refresh_interval_seconds"); err == nil && val != "" {
				if val != intervalSetting {
					log.Printf("cron: interval updated from %q to %q", intervalSetting, val)
					intervalSetting = val
					nextRun = getNextRun(intervalSetting, time.Now())
				}
			}

			if time.Now().Before(nextRun) {
				continue
			}

			started := time.Now()

			ok, err := pg.AcquireAdvisoryLock(ctx, lockKey)
			if err != nil {
				log.Printf("cron: acquire advisory lock failed: %v", err)
				metrics.UpdateJobMetrics(jobName, started, err)
				nextRun = getNextRun(intervalSetting, time.Now())
				continue
			}
			if !ok {
				log.Printf("cron: advisory lock held by another worker, skipping run")
				nextRun = getNextRun(intervalSetting, time.Now())
				continue
			}

			var runErr error
			var failures []alerting.SourceFailure
			var revocations []register.RegisterEntry
			func() {
				defer func() {
					if _, err := pg.ReleaseAdvisoryLock(ctx, lockKey); err != nil {
						log.Printf("cron: release advisory lock failed: %v", err)
					}
				}()

				today := time.Now()
				for _, src := range register.Sources() {
					resp, err := svc.ForceRefresh(ctx, src.Kind, today)
					if err != nil {
						log.Printf("cron: refresh source %s failed: %v", src.Key, err)
						failures = append(failures, alerting.SourceFailure{
							Source:   src.Key,
							Error:    err.Error(),
							Attempts: 1,
						})
						if runErr == nil {
							runErr = err
						}
						continue
					}
					metrics.RegisterEntriesExtracted.WithLabelValues(string(src.Kind)).Set(float64(resp.Count))
					if src.Kind == register.SourceHTML {
						for _, e := range resp.Entries {
							if e.Category == "REVOCATION" {
								revocations = append(revocations, e)
							}
						}
					}
				}
			}()

			metrics.UpdateJobMetrics(jobName, started, runErr)
			dur := time.Since(started)
			errMsg := ""
			success := runErr == nil
			if runErr != nil {
				errMsg = runErr.Error()
			}
			if err := pg.UpdateScheduledJob(ctx, jobName, started, dur, success, errMsg); err != nil {
				log.Printf("cron: update scheduled_jobs failed: %v", err)
			}

			if len(failures) > 0 {
				alert := alerting.RefreshAlert{
					JobName:       jobName,
					RegisterDate:  started.Format("01/02/2006"),
					TotalCount:    len(register.Sources()),
					SuccessCount:  len(register.Sources()) - len(failures),
					FailedCount:   len(failures),
					Duration:      dur,
					FailedDetails: failures,
					Timestamp:     time.Now(),
				}
				if err := alerter.SendRefreshAlert(ctx, alert); err != nil {
					log.Printf("cron: send alert failed: %v", err)
				}
			}

			if notifSvc != nil && len(revocations) > 0 {
				if err := notifSvc.SendDigest(ctx, revocationSubject(len(revocations)), revocationBody(revocations)); err != nil {
					log.Printf("cron: send revocation digest failed: %v", err)
				}
			}

			if runErr != nil {
				log.Printf("cron: job %s completed with error: %v (duration=%s)", jobName, runErr, dur)
			} else {
				log.Printf("cron: job %s completed successfully (duration=%s)", jobName, dur)
			}

			nextRun = getNextRun(intervalSetting, time.Now())
		}
	}
}

func revocationSubject(n int) string {
	return fmt.Sprintf("CarrierWatch: %d revocation(s) on today's register", n)
}

func revocationBody(entries []register.RegisterEntry) string {
	var b strings.Builder
	b.WriteString("<h3>Revocations on today's register</h3><ul>")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("<li><b>%s</b> %s (decided %s)</li>", e.Number, e.Title, e.Decided))
	}
	b.WriteString("</ul>")
	return b.String()
}
