// Package detect defines the provider-neutral types for AI authorship detection:
// provider ids, per-provider specs, requests, normalized results and the
// detection error taxonomy.
package detect

import (
	"strings"
	"time"
)

// ProviderID identifies one upstream detection service.
type ProviderID string

// Supported provider ids.
const (
	GPTZero        ProviderID = "gptzero"
	Originality    ProviderID = "originality"
	Sapling        ProviderID = "sapling"
	Copyleaks      ProviderID = "copyleaks"
	ZeroGPT        ProviderID = "zerogpt"
	Writer         ProviderID = "writer"
	ContentAtScale ProviderID = "contentatscale"
)

// ParseProviderID normalizes a user supplied provider name (trimmed, lower case).
// It does not check the id against a registry.
func ParseProviderID(name string) ProviderID {
	return ProviderID(strings.ToLower(strings.TrimSpace(name)))
}

func (p ProviderID) String() string {
	return string(p)
}

// Scale is the native scale of a provider's raw score.
type Scale int

const (
	// ScaleUnit scores are already in [0,1].
	ScaleUnit Scale = iota

	// ScalePercent scores are in [0,100].
	ScalePercent

	// ScaleAmbiguous scores may be either; values above 1 are treated as percent.
	ScaleAmbiguous
)

func (s Scale) String() string {
	switch s {
	case ScaleUnit:
		return "0-1"
	case ScalePercent:
		return "0-100"
	case ScaleAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// AuthFormat describes where and how the credential travels.
type AuthFormat int

const (
	// AuthRaw sends the credential verbatim in Auth.Header.
	AuthRaw AuthFormat = iota

	// AuthBearer sends "Bearer <credential>" in Auth.Header.
	AuthBearer

	// AuthBody carries the credential inside the request body; no header is set.
	AuthBody
)

// Auth is the header construction rule for a provider.
type Auth struct {
	Header string
	Format AuthFormat
}

// HeaderValue returns the header value for credential, or "" when the
// credential is carried in the body.
func (a Auth) HeaderValue(credential string) string {
	switch a.Format {
	case AuthRaw:
		return credential
	case AuthBearer:
		return "Bearer " + credential
	default:
		return ""
	}
}

// Spec is the immutable wire configuration of one provider.
type Spec struct {
	ID          ProviderID
	DisplayName string
	Endpoint    string
	Method      string
	Auth        Auth
	Scale       Scale

	// KeyURL is where a user obtains an API key for the provider.
	KeyURL string

	// BuildBody maps the input text (and credential, for body-authenticated
	// providers) to a JSON-marshalable request body.
	BuildBody func(text, credential string) any

	// ExtractScore pulls the raw score out of a JSON response body. A score
	// absent at every known path yields 0 and no error.
	ExtractScore func(body []byte) (float64, error)
}

// Request is a single analysis request.
type Request struct {
	Text       string
	Provider   ProviderID
	Credential string
}

// Result is the outcome of one successful analysis.
type Result struct {
	Provider  ProviderID `json:"provider"`
	AIScore   float64    `json:"ai_score"`
	WordCount int        `json:"word_count"`
	CharCount int        `json:"char_count"`
	Timestamp time.Time  `json:"timestamp"`
}

// Verdict returns the human verdict band for the result's score.
func (r *Result) Verdict() Verdict {
	return VerdictFor(r.AIScore)
}

// Percent returns the score as a whole percentage.
func (r *Result) Percent() int {
	return Percent(r.AIScore)
}
