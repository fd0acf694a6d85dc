// Package device maps a client's network address and user agent to a stable
// device row that search history can reference.
package device

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxAgentLength = 512 // characters, matches the column size

// namespace seeds the UUIDv5 fingerprints; changing it re-keys every device.
var namespace = uuid.MustParse("6f1c7f0e-3c1b-4b8e-9a57-0d3f3f7c2a10")

type Device struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Fingerprint string    `gorm:"uniqueIndex;size:36;not null" json:"fingerprint"`
	IP          string    `gorm:"size:45" json:"ip"`
	Agent       string    `gorm:"size:512" json:"agent"`
	CreatedDate time.Time `json:"created_date"`
}

// Resolver resolves a request's origin to a Device.
type Resolver interface {
	Resolve(ctx context.Context, addr, agent string) (*Device, error)
}

// Fingerprint returns the stable identifier for an address/agent pair.
func Fingerprint(addr, agent string) string {
	return uuid.NewSHA1(namespace, []byte(addr+"\x00"+agent)).String()
}

type GormResolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *GormResolver {
	return &GormResolver{db: db}
}

// storedAgent makes agent safe for a UTF-8 text column: invalid bytes are
// replaced and the result is capped at maxAgentLength characters.
func storedAgent(agent string) string {
	agent = strings.ToValidUTF8(agent, "\uFFFD")
	if utf8.RuneCountInString(agent) > maxAgentLength {
		agent = string([]rune(agent)[:maxAgentLength])
	}
	return agent
}

// Resolve returns the device for addr/agent, creating it on first sight. The
// fingerprint covers the full agent; only the stored copy is capped.
func (r *GormResolver) Resolve(ctx context.Context, addr, agent string) (*Device, error) {
	d := Device{
		Fingerprint: Fingerprint(addr, agent),
		IP:          addr,
		Agent:       storedAgent(agent),
		CreatedDate: time.Now().UTC(),
	}
	tx := r.db.WithContext(ctx)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoNothing: true,
	}).Create(&d).Error; err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}

	var found Device
	if err := tx.Where("fingerprint = ?", d.Fingerprint).First(&found).Error; err != nil {
		return nil, fmt.Errorf("load device: %w", err)
	}
	return &found, nil
}
