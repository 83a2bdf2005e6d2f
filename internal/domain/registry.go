package domain

// RegistryVersion is one published version of a crate as advertised by the
// sparse index. Vers is the raw string from the index; normalization and
// selection policy belong to the resolver.
type RegistryVersion struct {
	Vers   string
	Yanked bool
}
