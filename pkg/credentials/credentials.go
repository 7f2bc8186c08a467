// Package credentials stores detection provider API keys in credentials.toml
// and resolves the key to use for a request.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/detect/provider"
	"github.com/papercomputeco/aiscore/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0

	envPrefix = "AISCORE_"
	envSuffix = "_API_KEY"
)

// Manager manages reading and writing credentials.toml in the .aiscore/ directory.
type Manager struct {
	ddm        *dotdir.Manager
	targetPath string
}

// NewManager creates a new credentials Manager. If override is non-empty it is
// used as the .aiscore/ directory; otherwise the standard dotdir resolution applies.
// When no .aiscore/ directory is found, one is created at ~/.aiscore/.
func NewManager(override string) (*Manager, error) {
	mgr := &Manager{}
	mgr.ddm = dotdir.NewManager()

	target, err := mgr.ddm.Ensure(override)
	if err != nil {
		return nil, err
	}

	mgr.targetPath = filepath.Join(target, credentialsFile)

	return mgr, nil
}

// Load reads credentials.toml from the target directory.
// Returns an empty Credentials if the file does not exist.
func (m *Manager) Load() (*Credentials, error) {
	data, err := os.ReadFile(m.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{
				Version:   currentVersion,
				Providers: make(map[string]ProviderCredential),
			}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds := &Credentials{}
	if err := toml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	if creds.Providers == nil {
		creds.Providers = make(map[string]ProviderCredential)
	}

	return creds, nil
}

// Save writes credentials to credentials.toml with 0600 permissions.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(creds); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.WriteFile(m.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	return nil
}

// SetKey stores an API key for the given provider.
func (m *Manager) SetKey(id detect.ProviderID, key string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	creds.Providers[string(id)] = ProviderCredential{APIKey: key}

	return m.Save(creds)
}

// GetKey returns the stored API key for the given provider.
// Returns an empty string if no key is stored.
func (m *Manager) GetKey(id detect.ProviderID) (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}

	pc, ok := creds.Providers[string(id)]
	if !ok {
		return "", nil
	}

	return pc.APIKey, nil
}

// RemoveKey deletes the stored credential for a provider.
func (m *Manager) RemoveKey(id detect.ProviderID) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	delete(creds.Providers, string(id))

	return m.Save(creds)
}

// ListProviders returns the ids of providers that have stored credentials.
func (m *Manager) ListProviders() ([]detect.ProviderID, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(creds.Providers))
	for name := range creds.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make([]detect.ProviderID, len(names))
	for i, name := range names {
		ids[i] = detect.ProviderID(name)
	}

	return ids, nil
}

// Resolve picks the credential for a request. An explicit value wins, then
// the provider's environment variable, then the stored key. A blank result
// is returned as SourceNone so the dispatcher can report a missing credential.
func (m *Manager) Resolve(id detect.ProviderID, explicit string) (string, Source, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, SourceFlag, nil
	}

	if v := strings.TrimSpace(os.Getenv(EnvVarForProvider(id))); v != "" {
		return v, SourceEnv, nil
	}

	stored, err := m.GetKey(id)
	if err != nil {
		return "", SourceNone, err
	}
	if strings.TrimSpace(stored) != "" {
		return stored, SourceStored, nil
	}

	return "", SourceNone, nil
}

// GetTarget returns the resolved path to the credentials file.
func (m *Manager) GetTarget() string {
	return m.targetPath
}

// EnvVarForProvider returns the environment variable consulted for a provider,
// e.g. AISCORE_GPTZERO_API_KEY. Returns an empty string for unknown providers.
func EnvVarForProvider(id detect.ProviderID) string {
	if !provider.IsSupported(string(id)) {
		return ""
	}
	return envPrefix + strings.ToUpper(string(id)) + envSuffix
}

// SupportedProviders returns the provider ids that accept API keys.
func SupportedProviders() []string {
	return provider.SupportedNames()
}

// IsSupportedProvider returns true if the given provider is supported.
func IsSupportedProvider(name string) bool {
	return provider.IsSupported(name)
}
