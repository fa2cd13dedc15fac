package dungeon

import (
	"crypto/sha256"
	"encoding/binary"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// Config is the host-facing generation request: a GenerateRequest plus the
// template root every room-type template_map_path is resolved against.
// A zero Seed is auto-generated, matching the teacher's LoadConfig contract.
type Config struct {
	Request tilemap.GenerateRequest `yaml:"request" json:"request"`

	// TemplateRoot is joined with every template path before the
	// Generator's LoadTemplate is invoked. Empty means template_map_path
	// values are used as-is.
	TemplateRoot string `yaml:"templateRoot,omitempty" json:"templateRoot,omitempty"`
}

// LoadConfig reads and validates a YAML request file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dgerr.Wrap("dungeon.LoadConfig", dgerr.IOError, err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses a YAML request from a byte slice, auto-seeding
// and validating it against PublicMinSize.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, dgerr.Wrap("dungeon.LoadConfigFromBytes", dgerr.UnsupportedFormat, err)
	}
	if cfg.Request.Seed == 0 {
		cfg.Request.Seed = generateSeed()
	}
	if err := cfg.Request.Validate(tilemap.PublicMinSize); err != nil {
		return nil, dgerr.Wrap("dungeon.LoadConfigFromBytes", dgerr.InvalidArgument, err)
	}
	return &cfg, nil
}

// ToYAML serializes the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes a deterministic SHA-256 digest of the config's YAML form.
// The generation pipeline does not use it; it seeds its RNG from
// Request.Seed alone. Forbidden regions are a borrowed, non-owning slice
// (spec §5) and are excluded from the hash; everything else in the config
// is part of it.
func (c *Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		h := sha256.New()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], c.Request.Seed)
		h.Write(buf[:])
		return h.Sum(nil)
	}
	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}

// generateSeed creates a seed from the current time, used when a caller
// leaves Request.Seed at zero.
func generateSeed() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint64(now)
	if seed == 0 {
		seed = 1
	}
	return seed
}
