// internal/services/deadline_notifier.go
package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"gestor/internal/models"
	"gestor/internal/realtime"
	"gestor/internal/repositories"
)

// DefaultScanInterval is how often the deadline scan runs.
const DefaultScanInterval = time.Hour

// dedupWindow is the trailing window in which a (user, task, type)
// notification is considered already delivered.
const dedupWindow = 24 * time.Hour

const scanTimeout = 30 * time.Second

// DeadlineNotifier periodically scans open tasks and writes at most one
// deadline notification per (user, task, category) per trailing 24 hours.
// It is constructed and injected; the session manager starts it when a
// profile-backed session appears and stops it on sign-out.
//
// The de-dup check is read-then-write, not atomic: two concurrent scans can
// race and double-insert. The consequence is a duplicate, non-destructive
// notification, which is accepted.
type DeadlineNotifier struct {
	tasks  repositories.TaskRepository
	notifs repositories.NotificationRepository
	users  repositories.UserRepository
	feed   *realtime.Feed
	tg     *TelegramService

	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	stop chan struct{} // non-nil while Running
}

func NewDeadlineNotifier(
	tasks repositories.TaskRepository,
	notifs repositories.NotificationRepository,
	users repositories.UserRepository,
	feed *realtime.Feed,
	tg *TelegramService,
	interval time.Duration,
) *DeadlineNotifier {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return &DeadlineNotifier{
		tasks:    tasks,
		notifs:   notifs,
		users:    users,
		feed:     feed,
		tg:       tg,
		interval: interval,
		now:      time.Now,
	}
}

// Running reports whether the notifier loop is active.
func (d *DeadlineNotifier) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stop != nil
}

// Start runs one immediate scan and then ticks at the configured interval.
// Calling Start while Running is a warn-and-return no-op.
func (d *DeadlineNotifier) Start() {
	d.mu.Lock()
	if d.stop != nil {
		d.mu.Unlock()
		log.Printf("[notifier][warn] already running")
		return
	}
	stop := make(chan struct{})
	d.stop = stop
	d.mu.Unlock()

	log.Printf("[notifier] starting, interval=%s", d.interval)
	go d.loop(stop)
}

// Stop cancels the recurring scan. Idempotent.
func (d *DeadlineNotifier) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop == nil {
		return
	}
	close(d.stop)
	d.stop = nil
	log.Printf("[notifier] stopped")
}

func (d *DeadlineNotifier) loop(stop chan struct{}) {
	d.runScan()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.runScan()
		}
	}
}

func (d *DeadlineNotifier) runScan() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()
	if err := d.Scan(ctx); err != nil {
		log.Printf("[notifier][err] scan: %v", err)
	}
}

// Scan classifies every open task with a responsible and a due date into a
// deadline bucket and inserts the missing notifications. A fetch error ends
// the scan; per-task insert errors are logged and skipped.
func (d *DeadlineNotifier) Scan(ctx context.Context) error {
	tasks, err := d.tasks.ListDeadlineCandidates(ctx)
	if err != nil {
		return fmt.Errorf("list deadline candidates: %w", err)
	}

	now := d.now()
	for _, t := range tasks {
		// The repository already filters these, but a fake or a stale view
		// may not.
		if t.Status == models.StatusDone || t.ResponsibleID == nil || t.DueDate == nil {
			continue
		}
		typ, title, desc := ClassifyDeadline(*t.DueDate, now, t.Title)
		if typ == "" {
			continue
		}
		if err := d.createIfMissing(ctx, *t.ResponsibleID, t.ID, typ, title, desc, now); err != nil {
			log.Printf("[notifier][err] notify task=%s type=%s: %v", t.ID, typ, err)
		}
	}
	return nil
}

// ClassifyDeadline maps a due date to its bucket relative to now:
//
//	delta < 0                      → task_overdue
//	0 ≤ delta ≤ 24h, same day      → deadline_today
//	0 ≤ delta ≤ 24h, next day      → deadline_24h
//	otherwise                      → none (empty type)
func ClassifyDeadline(due, now time.Time, taskTitle string) (models.NotificationType, string, string) {
	delta := due.Sub(now)
	switch {
	case delta < 0:
		return models.NotificationTaskOverdue,
			fmt.Sprintf("Tarefa Atrasada: %s", taskTitle),
			fmt.Sprintf("Esta tarefa está atrasada desde %s", due.Format("02/01/2006"))
	case delta <= dedupWindow && sameLocalDay(due, now):
		return models.NotificationDeadlineToday,
			fmt.Sprintf("Prazo Hoje: %s", taskTitle),
			fmt.Sprintf("Esta tarefa vence hoje às %s", due.Format("15:04"))
	case delta <= dedupWindow:
		return models.NotificationDeadline24h,
			fmt.Sprintf("Prazo em 24h: %s", taskTitle),
			fmt.Sprintf("Esta tarefa vence amanhã (%s)", due.Format("02/01/2006"))
	default:
		return "", "", ""
	}
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

func (d *DeadlineNotifier) createIfMissing(
	ctx context.Context,
	userID, taskID string,
	typ models.NotificationType,
	title, desc string,
	now time.Time,
) error {
	exists, err := d.notifs.ExistsRecent(ctx, userID, taskID, typ, now.Add(-dedupWindow))
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	n := &models.Notification{
		ID:          uuid.NewString(),
		UserID:      userID,
		TaskID:      &taskID,
		Type:        typ,
		Title:       title,
		Description: &desc,
	}
	if err := d.notifs.Create(ctx, n); err != nil {
		return err
	}
	log.Printf("[notifier] created %s for task=%s user=%s", typ, taskID, userID)

	d.feed.Publish(realtime.Event{
		Table: "notifications", Action: realtime.ActionInsert, RowID: n.ID, UserID: userID,
	})
	d.relayTelegram(ctx, n)
	return nil
}

func (d *DeadlineNotifier) relayTelegram(ctx context.Context, n *models.Notification) {
	if d.tg == nil || d.users == nil {
		return
	}
	chatID, allow, err := d.users.GetTelegramSettings(ctx, n.UserID)
	if err != nil || !allow || chatID == 0 {
		return
	}
	if err := d.tg.SendNotification(chatID, n); err != nil {
		log.Printf("[notifier][warn] telegram relay for user=%s: %v", n.UserID, err)
	}
}
