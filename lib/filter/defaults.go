package filter

// Names and priorities of the stages in the default chain.
const (
	StageIdentifier  = "identifier"
	StageTagType     = "tagtype"
	StageHTML        = "html"
	StageRemove      = "remove"
	StageNamespace   = "namespace"
	StageEnclosure   = "enclosure"
	StageHead        = "head"
	StageContextPath = "contextpath"
)

const (
	PriorityIdentifier  = 100
	PriorityTagType     = 200
	PriorityHTML        = 300
	PriorityRemove      = 400
	PriorityNamespace   = 500
	PriorityEnclosure   = 600
	PriorityHead        = 700
	PriorityContextPath = 800
)

// Config configures the default chain.
type Config struct {
	// Registry lists the tags accepted in the reserved namespace. Nil means
	// DefaultTagRegistry.
	Registry *TagRegistry
	// StripWicketTags removes namespace declarations from the output.
	StripWicketTags bool
	// ContextPath, when set, prefixes relative links in raw tags.
	ContextPath string
	// InsertHead adds a <head> to documents that have a <body> without one.
	InsertHead bool
}

// DefaultChain returns the standard stages for one parse. The stages are
// stateful; build a new chain per parse.
func DefaultChain(state *State, cfg Config) *Chain {
	stages := []Stage{
		{Name: StageIdentifier, Priority: PriorityIdentifier, Filter: NewTagIdentifier(state, cfg.Registry)},
		{Name: StageTagType, Priority: PriorityTagType, Filter: NewTagTypeHandler()},
		{Name: StageHTML, Priority: PriorityHTML, Filter: NewHTMLHandler()},
		{Name: StageRemove, Priority: PriorityRemove, Filter: NewRemoveHandler()},
		{Name: StageNamespace, Priority: PriorityNamespace, Filter: NewNamespaceHandler(state, cfg.StripWicketTags)},
		{Name: StageEnclosure, Priority: PriorityEnclosure, Filter: NewEnclosureHandler()},
		{Name: StageHead, Priority: PriorityHead, Filter: NewHeadSectionHandler(cfg.InsertHead)},
	}
	if cfg.ContextPath != "" {
		stages = append(stages, Stage{Name: StageContextPath, Priority: PriorityContextPath, Filter: NewContextPathHandler(cfg.ContextPath)})
	}
	return NewChain(stages...)
}
