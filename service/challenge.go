package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NonceSize is the number of random bytes embedded in every challenge
const NonceSize = 16

const challengeTimeLayout = "2006-01-02T15:04:05.000Z07:00"

const challengeTemplate = `Sign this message to authenticate with %s

Nonce: %s
Timestamp: %s

This signature proves you own this wallet and will not trigger any blockchain transactions.`

// ChallengeGenerator produces the human-readable messages users sign to prove wallet ownership
type ChallengeGenerator struct {
	appName string
	now     func() time.Time
}

// NewChallengeGenerator creates a generator that names appName in its messages
func NewChallengeGenerator(appName string) *ChallengeGenerator {
	return &ChallengeGenerator{
		appName: appName,
		now:     time.Now,
	}
}

// Generate returns a new challenge message with a fresh nonce
func (g *ChallengeGenerator) Generate() (string, error) {
	nonceBytes := make([]byte, NonceSize)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	timestamp := g.now().UTC().Format(challengeTimeLayout)
	return fmt.Sprintf(challengeTemplate, g.appName, hex.EncodeToString(nonceBytes), timestamp), nil
}

// ParseChallenge extracts the nonce and timestamp from a generated challenge message
func ParseChallenge(message string) (string, time.Time, error) {
	var nonce, timestamp string
	for _, line := range strings.Split(message, "\n") {
		switch {
		case strings.HasPrefix(line, "Nonce: "):
			nonce = strings.TrimPrefix(line, "Nonce: ")
		case strings.HasPrefix(line, "Timestamp: "):
			timestamp = strings.TrimPrefix(line, "Timestamp: ")
		}
	}

	if len(nonce) != NonceSize*2 {
		return "", time.Time{}, fmt.Errorf("challenge has no valid nonce")
	}
	if _, err := hex.DecodeString(nonce); err != nil {
		return "", time.Time{}, fmt.Errorf("challenge nonce is not hex: %w", err)
	}

	issuedAt, err := time.Parse(challengeTimeLayout, timestamp)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("challenge has no valid timestamp: %w", err)
	}

	return nonce, issuedAt, nil
}
