package binding

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/prismgfx/prism/engine/renderer/bind_group_provider"
)

// initializedProvider returns a provider that looks GPU-initialized to the
// table. The handles are never dereferenced by the binding layer, which only
// checks presence.
func initializedProvider(label string) bind_group_provider.BindGroupProvider {
	return bind_group_provider.NewBindGroupProvider(label,
		bind_group_provider.WithBindGroup(&wgpu.BindGroup{}),
	)
}

func initializedDepthProvider(label string) bind_group_provider.BindGroupProvider {
	return bind_group_provider.NewBindGroupProvider(label,
		bind_group_provider.WithBindGroup(&wgpu.BindGroup{}),
		bind_group_provider.WithTextureView(0, &wgpu.TextureView{}),
	)
}

func TestGeometryTableBindsInGroupOrder(t *testing.T) {
	table := NewTable(GeometryPassLayout)

	sceneProvider := initializedProvider("scene")
	meshProvider := initializedProvider("mesh")

	// Bind mesh before scene; Providers must still come back in group order.
	if err := table.BindMesh(meshProvider); err != nil {
		t.Fatalf("BindMesh: %v", err)
	}
	if table.Complete() {
		t.Fatal("table should be incomplete with only the mesh tier bound")
	}
	if err := table.BindScene(sceneProvider); err != nil {
		t.Fatalf("BindScene: %v", err)
	}
	if !table.Complete() {
		t.Fatal("table should be complete with both tiers bound")
	}

	providers, err := table.Providers()
	if err != nil {
		t.Fatalf("Providers: %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(providers))
	}
	if providers[0].Label() != "scene" || providers[1].Label() != "mesh" {
		t.Fatalf("providers out of group order: %q, %q", providers[0].Label(), providers[1].Label())
	}
}

func TestKindMismatchRejected(t *testing.T) {
	table := NewTable(GeometryPassLayout)
	if err := table.BindDepthTexture(initializedDepthProvider("depth")); err == nil {
		t.Fatal("geometry layout should reject a depth texture at group 0")
	}

	debugTable := NewTable(DepthDebugPassLayout)
	if err := debugTable.BindScene(initializedProvider("scene")); err == nil {
		t.Fatal("debug layout should reject a uniform buffer at group 0")
	}
	if err := debugTable.BindMesh(initializedProvider("mesh")); err == nil {
		t.Fatal("debug layout should reject a mesh tier bind entirely")
	}
}

func TestUninitializedProviderRejected(t *testing.T) {
	table := NewTable(GeometryPassLayout)

	bare := bind_group_provider.NewBindGroupProvider("bare")
	if err := table.BindScene(bare); err == nil {
		t.Fatal("binding a provider without a bind group should be an ordering error")
	}
	if err := table.BindScene(nil); err == nil {
		t.Fatal("binding a nil provider should be rejected")
	}

	// A depth provider with a bind group but no texture view is also rejected.
	debugTable := NewTable(DepthDebugPassLayout)
	noView := initializedProvider("no-view")
	if err := debugTable.BindDepthTexture(noView); err == nil {
		t.Fatal("binding a depth provider without a texture view should be rejected")
	}
}

func TestIncompleteTableCannotProvide(t *testing.T) {
	table := NewTable(GeometryPassLayout)
	if err := table.BindScene(initializedProvider("scene")); err != nil {
		t.Fatalf("BindScene: %v", err)
	}
	if _, err := table.Providers(); err == nil {
		t.Fatal("Providers should fail while the mesh tier is unbound")
	}
}

func TestDepthDebugTable(t *testing.T) {
	table := NewTable(DepthDebugPassLayout)
	if err := table.BindDepthTexture(initializedDepthProvider("depth")); err != nil {
		t.Fatalf("BindDepthTexture: %v", err)
	}
	providers, err := table.Providers()
	if err != nil {
		t.Fatalf("Providers: %v", err)
	}
	if len(providers) != 1 || providers[0].Label() != "depth" {
		t.Fatalf("unexpected providers: %v", providers)
	}
}

func TestMinimalTableIsTriviallyComplete(t *testing.T) {
	table := NewTable(MinimalPassLayout)
	if !table.Complete() {
		t.Fatal("the minimal layout declares no slots and should be complete when empty")
	}
	providers, err := table.Providers()
	if err != nil {
		t.Fatalf("Providers: %v", err)
	}
	if len(providers) != 0 {
		t.Fatalf("expected no providers, got %d", len(providers))
	}
}
