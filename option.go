package orleans

// A RegistryOption configures a codec Registry at construction.
type RegistryOption interface {
	applyToRegistry(*registryConfig)
}

// A ReferenceOption configures a FilterReference at construction or
// restoration.
type ReferenceOption interface {
	applyToReference(*referenceConfig)
}

type registryConfig struct {
	policy ConflictPolicy
}

type referenceConfig struct {
	resolver *Resolver
}

// A ConflictPolicy decides what Register does when a codec already exists for
// the type being registered.
type ConflictPolicy uint8

const (
	// ConflictReplace atomically replaces the existing entry. This is the
	// default: later registrations win, and lookups never return a stale
	// codec.
	ConflictReplace ConflictPolicy = iota
	// ConflictSkip keeps the existing entry and silently drops the new one.
	ConflictSkip
	// ConflictError rejects the new entry with CodeAlreadyRegistered.
	ConflictError
)

func (p ConflictPolicy) String() string {
	switch p {
	case ConflictReplace:
		return "replace"
	case ConflictSkip:
		return "skip"
	case ConflictError:
		return "error"
	}
	return "unknown"
}

type conflictPolicyOption struct {
	policy ConflictPolicy
}

// WithConflictPolicy sets the registry's behavior on duplicate registration
// of the same type. Most callers register codecs once during initialization
// and never hit a conflict; ConflictError is useful for catching accidental
// double registration in larger programs.
func WithConflictPolicy(policy ConflictPolicy) RegistryOption {
	return &conflictPolicyOption{policy: policy}
}

func (o *conflictPolicyOption) applyToRegistry(cfg *registryConfig) {
	cfg.policy = o.policy
}

type resolverOption struct {
	resolver *Resolver
}

// WithResolver binds a FilterReference to a specific Resolver instead of the
// process-wide default. Rehydration on the receiving side looks the declaring
// type up in this resolver, so tests can exercise a fresh resolution context
// without touching global state.
func WithResolver(resolver *Resolver) ReferenceOption {
	return &resolverOption{resolver: resolver}
}

func (o *resolverOption) applyToReference(cfg *referenceConfig) {
	cfg.resolver = o.resolver
}
