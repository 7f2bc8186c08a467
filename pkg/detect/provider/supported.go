package provider

import (
	"slices"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/detect/provider/contentatscale"
	"github.com/papercomputeco/aiscore/pkg/detect/provider/copyleaks"
	"github.com/papercomputeco/aiscore/pkg/detect/provider/gptzero"
	"github.com/papercomputeco/aiscore/pkg/detect/provider/originality"
	"github.com/papercomputeco/aiscore/pkg/detect/provider/sapling"
	"github.com/papercomputeco/aiscore/pkg/detect/provider/writer"
	"github.com/papercomputeco/aiscore/pkg/detect/provider/zerogpt"
)

// DefaultProvider is used when no provider has been configured.
const DefaultProvider = detect.GPTZero

// builtins is the static provider table, in display order.
func builtins() []detect.Spec {
	return []detect.Spec{
		gptzero.Spec(),
		originality.Spec(),
		sapling.Spec(),
		copyleaks.Spec(),
		zerogpt.Spec(),
		writer.Spec(),
		contentatscale.Spec(),
	}
}

// Default is the process-wide registry of built-in providers.
var Default = NewRegistry()

// SupportedProviders returns the ids of all built-in providers.
func SupportedProviders() []detect.ProviderID {
	return Default.Providers()
}

// SupportedNames returns SupportedProviders as plain strings, for flag help
// and shell completion.
func SupportedNames() []string {
	ids := SupportedProviders()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, string(id))
	}
	return names
}

// IsSupported reports whether name resolves to a built-in provider.
func IsSupported(name string) bool {
	return slices.Contains(SupportedProviders(), detect.ParseProviderID(name))
}
