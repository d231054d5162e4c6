package auditlog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Curva95/discord-bot/clients"
	"github.com/Curva95/discord-bot/core"
	"github.com/Curva95/discord-bot/middleware"
	"github.com/Curva95/discord-bot/models"
	"github.com/Curva95/discord-bot/services"
)

const deliveryTimeout = 10 * time.Second

// AuditLogService forwards audit records to each scope's log channel.
// Publish never blocks; a single consumer drains the queue at a throttled rate.
type AuditLogService struct {
	queue           chan models.AuditRecord
	bindingsService services.BindingsService
	settingsService services.SettingsService
	discordClient   clients.DiscordClient
	limiter         *rate.Limiter
	alertMiddleware *middleware.ErrorAlertMiddleware

	mu      sync.RWMutex
	closed  bool
	started bool
	done    chan struct{}
}

func NewAuditLogService(
	bindingsService services.BindingsService,
	settingsService services.SettingsService,
	discordClient clients.DiscordClient,
	alertMiddleware *middleware.ErrorAlertMiddleware,
	queueSize int,
	ratePerSecond float64,
) *AuditLogService {
	if queueSize < 1 {
		queueSize = 1
	}
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}

	return &AuditLogService{
		queue:           make(chan models.AuditRecord, queueSize),
		bindingsService: bindingsService,
		settingsService: settingsService,
		discordClient:   discordClient,
		limiter:         rate.NewLimiter(limit, 1),
		alertMiddleware: alertMiddleware,
		done:            make(chan struct{}),
	}
}

// Publish enqueues a record. A full queue or a closed sink drops the record.
func (s *AuditLogService) Publish(record models.AuditRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		log.Printf("⚠️ Audit sink closed, dropping record %s", record.ID)
		return
	}

	select {
	case s.queue <- record:
	default:
		log.Printf("⚠️ Audit queue full, dropping record %s for scope %s: %v", record.ID, record.ScopeID, core.ErrAuditDelivery)
	}
}

// Start launches the consumer. It exits after Close once the queue is drained.
func (s *AuditLogService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	log.Printf("📋 Starting audit log consumer")
	go func() {
		defer close(s.done)
		for record := range s.queue {
			// A panic while delivering one record is recovered and alerted; the loop keeps draining
			deliverTask := s.alertMiddleware.WrapBackgroundTask("DeliverAuditRecord", func() error {
				return s.deliver(ctx, record)
			})
			if err := deliverTask(); err != nil {
				log.Printf("❌ Failed to deliver audit record %s: %v", record.ID, err)
			}
		}
		log.Printf("📋 Audit log consumer stopped")
	}()
}

// Close stops accepting records and waits for queued ones to be delivered
func (s *AuditLogService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	started := s.started
	s.mu.Unlock()

	if started {
		<-s.done
	}
}

func (s *AuditLogService) deliver(ctx context.Context, record models.AuditRecord) error {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	maybeDisabled, err := s.settingsService.GetBooleanSetting(ctx, record.ScopeID, models.SettingKeyAuditDisabled)
	if err != nil {
		return fmt.Errorf("%w: failed to read audit setting: %w", core.ErrAuditDelivery, err)
	}
	if maybeDisabled.OrElse(false) {
		return nil
	}

	maybeChannel, err := s.bindingsService.GetAuditDestination(ctx, record.ScopeID)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve audit destination: %w", core.ErrAuditDelivery, err)
	}
	channelID, ok := maybeChannel.Get()
	if !ok {
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", core.ErrAuditDelivery, err)
	}

	if err := s.discordClient.SendAuditRecord(ctx, channelID, record); err != nil {
		if errors.Is(err, core.ErrAuditDelivery) {
			return err
		}
		return fmt.Errorf("%w: %w", core.ErrAuditDelivery, err)
	}

	return nil
}
