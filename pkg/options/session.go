package options

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
)

// SessionOptions binds the [jwt] config section that signs and bounds the
// short-lived session tokens minted by /login/ (spec.md §4.2, §6). Unlike
// the teacher's JWTOptions (long-lived user sessions), Expiration here is
// the token's entire lifetime, matching the source's 5-second TTL.
type SessionOptions struct {
	Secret     string        `json:"secret" mapstructure:"secret"`
	Expiration time.Duration `json:"expiration" mapstructure:"expiration"`
	Capacity   int           `json:"capacity" mapstructure:"capacity"`
}

func NewSessionOptions() *SessionOptions {
	return &SessionOptions{
		Expiration: 5 * time.Second,
		Capacity:   1000,
	}
}

func (o *SessionOptions) Validate() []error {
	var errs []error
	if o.Expiration <= 0 {
		errs = append(errs, fmt.Errorf("jwt.expiration must be greater than 0"))
	}
	if o.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("jwt.capacity must be greater than 0"))
	}
	return errs
}

func (o *SessionOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Secret, "jwt.secret", o.Secret, "secret key used to sign session tokens; generated and persisted under db_dir if empty")
	fs.DurationVar(&o.Expiration, "jwt.expiration", o.Expiration, "session token lifetime (e.g. 5s)")
	fs.IntVar(&o.Capacity, "jwt.capacity", o.Capacity, "maximum number of live session-cache entries")
}

// EnsureSecret loads Secret from the config/flags, or else from
// <dbDir>/jwt.secret, generating and persisting a fresh random one on first
// run so operators need not manage a signing secret by hand (spec.md §6).
func (o *SessionOptions) EnsureSecret(dbDir string) error {
	if o.Secret != "" {
		return nil
	}

	path := filepath.Join(dbDir, "jwt.secret")
	b, err := os.ReadFile(path)
	if err == nil {
		o.Secret = string(b)
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("read jwt secret file %s: %w", path, err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate jwt secret: %w", err)
	}
	secret := hex.EncodeToString(raw)

	if err := os.MkdirAll(dbDir, 0o700); err != nil {
		return fmt.Errorf("create db_dir %s: %w", dbDir, err)
	}
	if err := os.WriteFile(path, []byte(secret), 0o600); err != nil {
		return fmt.Errorf("persist jwt secret to %s: %w", path, err)
	}

	o.Secret = secret
	return nil
}
