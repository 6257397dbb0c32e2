package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"riichi/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	voiceService     *app.VoiceService
	voiceServiceOnce sync.Once
)

func getVoiceService(ctx context.Context, logger runtime.Logger) *app.VoiceService {
	voiceServiceOnce.Do(func() {
		if voiceService != nil {
			return
		}
		env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
		secret := env["voice_chat_secret"]
		issuer := env["voice_chat_issuer"]
		domain := env["voice_chat_domain"]
		if secret == "" || issuer == "" || domain == "" {
			logger.Warn("Voice chat credentials missing from env, using test defaults.")
			secret, issuer, domain = "test-secret", "test-issuer", "example.com"
		}
		voiceService = app.NewVoiceService(secret, issuer, domain)
	})
	return voiceService
}

// rpcTableVoiceToken signs a voice chat token for the calling user.
// Payload: {"action": "login" | "join", "table_id": "..."}
func rpcTableVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("No user ID in context", 16) // UNAUTHENTICATED
	}

	var req struct {
		Action  string `json:"action"`
		TableID string `json:"table_id"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}
	if req.Action == "" {
		req.Action = app.VoiceTokenActionLogin
	}

	token, err := getVoiceService(ctx, logger).GenerateToken(userID, req.Action, req.TableID)
	if err != nil {
		logger.Error("Failed to generate voice token for user %s: %v", userID, err)
		return "", runtime.NewError("Internal error", 13) // INTERNAL
	}

	res := map[string]string{"token": token}
	resBytes, _ := json.Marshal(res)
	return string(resBytes), nil
}
