// Package filter implements the markup filter chain.
//
// The tokenizer produces raw tags; each filter stage pulls tags from the
// stage before it, annotates, rewrites or swallows them, and hands the
// survivors on. Stages are kept in an explicit ordered list (Chain) and
// composed into nested pull functions when a parse starts, so re-ordering
// the chain is a list splice rather than pointer surgery on the stages.
package filter

import (
	"fmt"
	"slices"

	"github.com/pthm/hxmarkup/lib/markup"
)

// Source yields tags. It returns io.EOF once the input is exhausted.
type Source interface {
	NextTag() (*markup.ComponentTag, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (*markup.ComponentTag, error)

// NextTag calls f.
func (f SourceFunc) NextTag() (*markup.ComponentTag, error) { return f() }

// Filter is one stage of the chain. NextTag pulls as many tags from parent
// as it needs and returns the next tag approved by this stage, io.EOF when
// parent is exhausted, or a *markup.ParseError.
type Filter interface {
	NextTag(parent Source) (*markup.ComponentTag, error)
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(parent Source) (*markup.ComponentTag, error)

// NextTag calls f.
func (f FilterFunc) NextTag(parent Source) (*markup.ComponentTag, error) { return f(parent) }

// Stage is a named filter with a priority. Higher priorities sit further
// from the tokenizer.
type Stage struct {
	Name     string
	Priority int
	Filter   Filter
}

// Chain is an ordered list of stages, tokenizer side first.
type Chain struct {
	stages []Stage
}

// NewChain returns a chain holding stages in the given order.
func NewChain(stages ...Stage) *Chain {
	return &Chain{stages: slices.Clone(stages)}
}

// Stages returns a copy of the stages, tokenizer side first.
func (c *Chain) Stages() []Stage {
	return slices.Clone(c.stages)
}

// Len returns the number of stages.
func (c *Chain) Len() int { return len(c.stages) }

// Append adds a stage at the outer end of the chain.
func (c *Chain) Append(s Stage) error {
	if err := c.checkName(s.Name); err != nil {
		return err
	}
	c.stages = append(c.stages, s)
	return nil
}

// Register inserts s outside every stage whose priority is lower than or
// equal to its own.
func (c *Chain) Register(s Stage) error {
	if s.Priority <= 0 {
		return fmt.Errorf("filter: priority of %q must be > 0", s.Name)
	}
	if err := c.checkName(s.Name); err != nil {
		return err
	}
	i := len(c.stages)
	for i > 0 && c.stages[i-1].Priority > s.Priority {
		i--
	}
	c.stages = slices.Insert(c.stages, i, s)
	return nil
}

// InsertBefore places s on the tokenizer side of the stage named name.
func (c *Chain) InsertBefore(name string, s Stage) error {
	i, err := c.find(name)
	if err != nil {
		return err
	}
	if err := c.checkName(s.Name); err != nil {
		return err
	}
	c.stages = slices.Insert(c.stages, i, s)
	return nil
}

// InsertAfter places s on the outer side of the stage named name.
func (c *Chain) InsertAfter(name string, s Stage) error {
	i, err := c.find(name)
	if err != nil {
		return err
	}
	if err := c.checkName(s.Name); err != nil {
		return err
	}
	c.stages = slices.Insert(c.stages, i+1, s)
	return nil
}

// Replace swaps the filter of the stage named name.
func (c *Chain) Replace(name string, f Filter) error {
	i, err := c.find(name)
	if err != nil {
		return err
	}
	c.stages[i].Filter = f
	return nil
}

// Remove drops the stage named name.
func (c *Chain) Remove(name string) error {
	i, err := c.find(name)
	if err != nil {
		return err
	}
	c.stages = slices.Delete(c.stages, i, i+1)
	return nil
}

// Parent returns the stage name pulls from. ok is false when name pulls
// directly from the tokenizer or does not exist.
func (c *Chain) Parent(name string) (parent Stage, ok bool) {
	i, err := c.find(name)
	if err != nil || i == 0 {
		return Stage{}, false
	}
	return c.stages[i-1], true
}

// SetParent makes parent the stage that name pulls from. The previous
// parent of name becomes the parent of parent.
func (c *Chain) SetParent(name string, parent Stage) error {
	return c.InsertBefore(name, parent)
}

// Build composes the stages over base and returns the outermost source.
func (c *Chain) Build(base Source) Source {
	src := base
	for _, st := range c.stages {
		f, parent := st.Filter, src
		src = SourceFunc(func() (*markup.ComponentTag, error) {
			return f.NextTag(parent)
		})
	}
	return src
}

func (c *Chain) find(name string) (int, error) {
	for i, st := range c.stages {
		if st.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("filter: no stage named %q", name)
}

func (c *Chain) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("filter: stage name must not be empty")
	}
	if _, err := c.find(name); err == nil {
		return fmt.Errorf("filter: duplicate stage %q", name)
	}
	return nil
}

// State is the per-parse context shared by stages.
type State struct {
	// Namespace is the prefix of the reserved namespace. NamespaceHandler
	// updates it when the template declares its own prefix.
	Namespace string
}

// NewState returns a state using namespace, or the default namespace.
func NewState(namespace string) *State {
	if namespace == "" {
		namespace = markup.DefaultNamespace
	}
	return &State{Namespace: namespace}
}
