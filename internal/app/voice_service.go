package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// VoiceService signs access tokens for the in-table voice chat provider.
// Login tokens let a player connect; join tokens admit them to one table's
// voice channel.
type VoiceService struct {
	secret string
	issuer string
	domain string
}

const (
	VoiceTokenActionLogin = "login"
	VoiceTokenActionJoin  = "join"
)

func NewVoiceService(secret, issuer, domain string) *VoiceService {
	return &VoiceService{
		secret: secret,
		issuer: issuer,
		domain: domain,
	}
}

// GenerateToken signs a token for the given user. A join token needs the
// table whose channel the user wants to enter.
func (s *VoiceService) GenerateToken(user, action, tableID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("voice service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("voice chat config is incomplete")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, tableID, userURI)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(time.Hour * 1).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
		"f":   userURI,
		"t":   targetURI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *VoiceService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *VoiceService) tableURI(tableID string) string {
	return "sip:confctl-g-" + tableID + "@" + s.domain
}

func (s *VoiceService) targetURI(action, tableID, userURI string) (string, error) {
	switch action {
	case VoiceTokenActionLogin:
		return userURI, nil
	case VoiceTokenActionJoin:
		if tableID == "" {
			return "", fmt.Errorf("table id is required for join tokens")
		}
		return s.tableURI(tableID), nil
	default:
		return "", fmt.Errorf("unsupported voice token action: %s", action)
	}
}
