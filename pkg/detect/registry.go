package detect

// Registry resolves provider ids to their wire specs.
type Registry interface {
	// Lookup returns the spec for id or an UnknownProvider *Error.
	Lookup(id ProviderID) (Spec, error)

	// Providers returns the registered ids in a stable order.
	Providers() []ProviderID
}
