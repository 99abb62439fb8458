// Package binding provides explicit per-draw binding tables. Every draw call
// assembles a Table against the pass's declared layout instead of relying on
// implicit binding state, so a mismatched group, a wrong resource kind, or an
// uninitialized provider is rejected before it reaches the GPU.
package binding

import (
	"fmt"
	"sort"

	"github.com/prismgfx/prism/engine/renderer/bind_group_provider"
)

// Kind identifies what resource category a bind group slot expects.
type Kind int

const (
	// KindUniformBuffer is a uniform buffer slot (scene or mesh tier).
	KindUniformBuffer Kind = iota

	// KindDepthTexture is a depth texture slot read by the debug blit pass.
	KindDepthTexture
)

func (k Kind) String() string {
	switch k {
	case KindUniformBuffer:
		return "uniform buffer"
	case KindDepthTexture:
		return "depth texture"
	default:
		return "unknown"
	}
}

// PassLayout declares the slot kind expected at each bind group index of a pass.
type PassLayout map[int]Kind

// The three pass layouts of the forward pipeline. Group 0 is the scene tier,
// shared across all draws of a pass; group 1 is the mesh tier, rebound per draw.
var (
	// GeometryPassLayout binds the scene uniform at group 0 and the mesh
	// uniform at group 1.
	GeometryPassLayout = PassLayout{
		GroupScene: KindUniformBuffer,
		GroupMesh:  KindUniformBuffer,
	}

	// DepthDebugPassLayout binds the depth attachment as a texture at group 0.
	DepthDebugPassLayout = PassLayout{
		GroupScene: KindDepthTexture,
	}

	// MinimalPassLayout binds nothing; the hello-triangle pass is fully procedural.
	MinimalPassLayout = PassLayout{}
)

// Bind group indices by tier.
const (
	// GroupScene is the scene-tier bind group index, set once per pass.
	GroupScene = 0

	// GroupMesh is the mesh-tier bind group index, rebound per draw call.
	GroupMesh = 1
)

// Table collects the bind group providers for a single draw call, validated
// against a PassLayout. A Table must be Complete before its Providers are
// handed to the renderer.
type Table struct {
	layout PassLayout
	bound  map[int]bind_group_provider.BindGroupProvider
}

// NewTable creates an empty binding table for the given pass layout.
//
// Parameters:
//   - layout: the pass layout the table is validated against
//
// Returns:
//   - *Table: an empty table accepting binds declared by the layout
func NewTable(layout PassLayout) *Table {
	return &Table{
		layout: layout,
		bound:  make(map[int]bind_group_provider.BindGroupProvider, len(layout)),
	}
}

// BindScene binds a scene-tier uniform provider at group 0.
//
// Parameters:
//   - p: the provider holding the scene uniform buffer
//
// Returns:
//   - error: an error if the layout has no scene uniform slot or the provider is not GPU-initialized
func (t *Table) BindScene(p bind_group_provider.BindGroupProvider) error {
	return t.bind(GroupScene, KindUniformBuffer, p)
}

// BindMesh binds a mesh-tier uniform provider at group 1.
//
// Parameters:
//   - p: the provider holding the mesh uniform buffer
//
// Returns:
//   - error: an error if the layout has no mesh uniform slot or the provider is not GPU-initialized
func (t *Table) BindMesh(p bind_group_provider.BindGroupProvider) error {
	return t.bind(GroupMesh, KindUniformBuffer, p)
}

// BindDepthTexture binds a depth texture provider at group 0. Only valid
// against layouts declaring a depth texture slot (the debug blit pass).
//
// Parameters:
//   - p: the provider holding the depth texture view and its bind group
//
// Returns:
//   - error: an error if the layout has no depth texture slot or the provider is not GPU-initialized
func (t *Table) BindDepthTexture(p bind_group_provider.BindGroupProvider) error {
	return t.bind(GroupScene, KindDepthTexture, p)
}

func (t *Table) bind(group int, kind Kind, p bind_group_provider.BindGroupProvider) error {
	declared, ok := t.layout[group]
	if !ok {
		return fmt.Errorf("binding: pass layout declares no group %d", group)
	}
	if declared != kind {
		return fmt.Errorf("binding: group %d expects a %s, got a %s", group, declared, kind)
	}
	if p == nil {
		return fmt.Errorf("binding: group %d bound with a nil provider", group)
	}
	if p.BindGroup() == nil {
		return fmt.Errorf("binding: provider %q bound before GPU initialization", p.Label())
	}
	if kind == KindDepthTexture && p.TextureView(0) == nil {
		return fmt.Errorf("binding: provider %q has no depth texture view", p.Label())
	}
	t.bound[group] = p
	return nil
}

// Complete reports whether every slot declared by the pass layout is bound.
func (t *Table) Complete() bool {
	for group := range t.layout {
		if t.bound[group] == nil {
			return false
		}
	}
	return true
}

// Providers returns the bound providers ordered by group index, ready to set
// on a render pass. Returns an error if the table is not complete, since
// drawing with a partial table is an ordering bug in the caller.
//
// Returns:
//   - []bind_group_provider.BindGroupProvider: providers indexed by group, in group order
//   - error: an error naming the first unbound group if the table is incomplete
func (t *Table) Providers() ([]bind_group_provider.BindGroupProvider, error) {
	groups := make([]int, 0, len(t.layout))
	for group := range t.layout {
		groups = append(groups, group)
	}
	sort.Ints(groups)

	providers := make([]bind_group_provider.BindGroupProvider, 0, len(groups))
	for _, group := range groups {
		p := t.bound[group]
		if p == nil {
			return nil, fmt.Errorf("binding: group %d declared by the pass layout is unbound", group)
		}
		providers = append(providers, p)
	}
	return providers, nil
}
