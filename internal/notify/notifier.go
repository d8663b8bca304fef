package notify

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var statusLabels = map[models.SubmissionStatus]string{
	models.SubmissionPending:  "en attente",
	models.SubmissionAccepted: "acceptée",
	models.SubmissionRejected: "refusée",
}

var kindLabels = map[models.SubmissionKind]string{
	models.SubmissionGame:        "jeu",
	models.SubmissionTranslation: "traduction",
	models.SubmissionUpdate:      "mise à jour",
	models.SubmissionDelete:      "suppression",
}

// Notifier fans events out to in-app notifications and the Discord webhooks
// configured on the app config row
type Notifier struct {
	db      *gorm.DB
	inbox   *Inbox
	discord *Discord
	log     *zap.Logger
}

func NewNotifier(db *gorm.DB, inbox *Inbox, discord *Discord, log *zap.Logger) *Notifier {
	return &Notifier{db: db, inbox: inbox, discord: discord, log: log}
}

// SubmissionStatusChanged tells the submitter about a moderation decision and
// announces accepted catalog changes on the updates webhook
func (n *Notifier) SubmissionStatusChanged(ctx context.Context, sub *models.Submission, from models.SubmissionStatus) {
	title := "Statut de soumission modifié"
	typ := models.NotificationStatusChanged
	switch sub.Status {
	case models.SubmissionAccepted:
		title, typ = "Soumission acceptée", models.NotificationAccepted
	case models.SubmissionRejected:
		title, typ = "Soumission refusée", models.NotificationRejected
	}
	message := fmt.Sprintf("Votre soumission de %s est maintenant %s.", label(kindLabels, sub.Kind), label(statusLabels, sub.Status))
	if sub.AdminNotes != nil {
		message += " Note : " + *sub.AdminNotes
	}

	err := n.inbox.Create(ctx, sub.UserID, Entry{
		Type:    typ,
		Title:   title,
		Message: message,
		Link:    "/dashboard/submit",
		Metadata: map[string]any{
			"submissionId":   sub.ID,
			"oldStatus":      from,
			"newStatus":      sub.Status,
			"submissionType": sub.Kind,
		},
	})
	if err != nil {
		n.log.Warn("failed to notify submitter", zap.String("submission_id", sub.ID), zap.Error(err))
	}

	cfg := n.config(ctx)
	if cfg == nil {
		return
	}
	color := ColorRed
	if sub.Status == models.SubmissionAccepted {
		color = ColorGreen
	}
	n.send(ctx, cfg.DiscordWebhookLogs, WebhookMessage{Embeds: []Embed{{
		Title: title,
		Color: color,
		Fields: []EmbedField{
			{Name: "Type", Value: label(kindLabels, sub.Kind), Inline: true},
			{Name: "Avant", Value: label(statusLabels, from), Inline: true},
			{Name: "Soumission", Value: sub.ID},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}}})

	if sub.Status == models.SubmissionAccepted && sub.Kind != models.SubmissionDelete && sub.GameID != nil {
		var game models.Game
		if err := n.db.WithContext(ctx).First(&game, "id = ?", *sub.GameID).Error; err != nil {
			return
		}
		embed := Embed{
			Title:       game.Name,
			URL:         game.Link,
			Description: fmt.Sprintf("%s : %s", label(kindLabels, sub.Kind), game.Name),
			Color:       ColorBlue,
		}
		if game.Image != "" {
			embed.Image = &EmbedImage{URL: game.Image}
		}
		n.send(ctx, cfg.DiscordWebhookUpdates, WebhookMessage{Embeds: []Embed{embed}})
	}
}

// NewUser tells superadmins about a registration
func (n *Notifier) NewUser(ctx context.Context, u *models.User) {
	n.inbox.Broadcast(ctx, models.RoleSuperadmin, Entry{
		Type:     models.NotificationNewUser,
		Title:    "Nouvel utilisateur inscrit",
		Message:  fmt.Sprintf("L'utilisateur %q vient de s'inscrire.", u.Username),
		Link:     "/dashboard/users",
		Metadata: map[string]any{"newUserId": u.ID, "username": u.Username},
	})
}

// APIError tells superadmins about a failed request. Only server errors are reported.
func (n *Notifier) APIError(ctx context.Context, method, route string, status int, username string) {
	if status < 500 {
		return
	}
	if username == "" {
		username = "Anonyme"
	}
	title := fmt.Sprintf("Erreur serveur %d", status)
	message := fmt.Sprintf("%s %s - Utilisateur: %s", method, route, username)
	n.inbox.Broadcast(ctx, models.RoleSuperadmin, Entry{
		Type:     models.NotificationAPIError,
		Title:    title,
		Message:  message,
		Link:     "/dashboard/logs?q=" + url.QueryEscape(route) + "&errors=true",
		Metadata: map[string]any{"method": method, "route": route, "status": status, "username": username},
	})

	if cfg := n.config(ctx); cfg != nil {
		n.send(ctx, cfg.DiscordWebhookLogs, WebhookMessage{Content: title + " : " + message})
	}
}

func (n *Notifier) config(ctx context.Context) *models.AppConfig {
	var cfg models.AppConfig
	if err := n.db.WithContext(ctx).First(&cfg, "id = ?", models.AppConfigID).Error; err != nil {
		n.log.Warn("failed to load app config", zap.Error(err))
		return nil
	}
	return &cfg
}

func (n *Notifier) send(ctx context.Context, hook *string, msg WebhookMessage) {
	if hook == nil || *hook == "" {
		return
	}
	if err := n.discord.Send(ctx, *hook, msg); err != nil {
		n.log.Warn("discord webhook failed", zap.Error(err))
	}
}

func label[K comparable](labels map[K]string, k K) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return fmt.Sprint(k)
}
