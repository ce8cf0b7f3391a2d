package notification

import (
	"context"
	"log"

	authrepo "feedhub-backend/internal/auth/repository"
	feeddomain "feedhub-backend/internal/feed/domain"
	"feedhub-backend/pkg/fcm"
)

// DeviceSender delivers a push notification to device tokens
type DeviceSender interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) ([]string, error)
}

// Pusher sends a push notification about new posts to registered devices
type Pusher struct {
	sender  DeviceSender
	fcmRepo authrepo.FCMTokenRepository
}

func NewPusher(sender DeviceSender, fcmRepo authrepo.FCMTokenRepository) *Pusher {
	return &Pusher{
		sender:  sender,
		fcmRepo: fcmRepo,
	}
}

// NotifyNewPost pushes to every device except the creator's own
func (p *Pusher) NotifyNewPost(ctx context.Context, post *feeddomain.Post) {
	tokens, err := p.fcmRepo.GetAllTokens(ctx)
	if err != nil {
		log.Printf("[FCM] Error getting device tokens: %v", err)
		return
	}

	creatorName := "Someone"
	if post.Creator != nil && post.Creator.Name != "" {
		creatorName = post.Creator.Name
	}

	var tokenStrings []string
	for _, t := range tokens {
		if t.UserID == post.CreatorID {
			continue
		}
		tokenStrings = append(tokenStrings, t.Token)
	}
	if len(tokenStrings) == 0 {
		return
	}

	failedTokens, err := p.sender.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title: creatorName + " posted " + post.Title,
		Body:  truncate(post.Content, 100),
		Data: map[string]string{
			"type":    "post_created",
			"post_id": post.ID,
		},
	})
	if err != nil {
		log.Printf("[FCM] Error sending new-post notification: %v", err)
	}

	if len(failedTokens) > 0 {
		log.Printf("[FCM] Cleaning up %d failed tokens", len(failedTokens))
		if err := p.fcmRepo.DeleteTokens(ctx, failedTokens); err != nil {
			log.Printf("[FCM] Error deleting failed tokens: %v", err)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
