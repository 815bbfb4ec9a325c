package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

type fakeStore struct {
	specs     model.EquipmentSpecs
	params    Params
	specsErr  error
	paramsErr error
}

func (s *fakeStore) EquipmentSpecs(ctx context.Context) (model.EquipmentSpecs, error) {
	return s.specs, s.specsErr
}

func (s *fakeStore) Params(ctx context.Context) (Params, error) {
	return s.params, s.paramsErr
}

func TestResolveNilStoreUsesDefaults(t *testing.T) {
	snap := NewResolver(nil, nil).Resolve(context.Background())

	if snap.Specs.Recip.UnitMW != 10 || snap.Specs.Turbine.UnitMW != 50 {
		t.Fatalf("defaults not loaded: %+v", snap.Specs)
	}
	if snap.Params.VoLL != 50_000 {
		t.Fatalf("default VoLL = %v", snap.Params.VoLL)
	}
	if len(snap.Warnings) != 1 {
		t.Fatalf("want 1 warning for missing store, got %v", snap.Warnings)
	}
}

func TestResolveStoreOverrides(t *testing.T) {
	specs := DefaultSpecs()
	specs.Recip.UnitMW = 12
	params := DefaultParams()
	params.GasPrice = 7.5

	snap := NewResolver(&fakeStore{specs: specs, params: params}, nil).Resolve(context.Background())

	if snap.Specs.Recip.UnitMW != 12 {
		t.Fatalf("specs not taken from store: %v", snap.Specs.Recip.UnitMW)
	}
	if snap.Params.GasPrice != 7.5 {
		t.Fatalf("params not taken from store: %v", snap.Params.GasPrice)
	}
	if len(snap.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", snap.Warnings)
	}
}

func TestResolveDegradesPerSection(t *testing.T) {
	params := DefaultParams()
	params.ElectricityPrice = 120

	store := &fakeStore{
		specsErr: errors.New("boom"),
		params:   params,
	}
	snap := NewResolver(store, nil).Resolve(context.Background())

	// Specs fall back, params still come from the store.
	if snap.Specs.Recip.UnitMW != 10 {
		t.Fatalf("specs fallback missing: %v", snap.Specs.Recip.UnitMW)
	}
	if snap.Params.ElectricityPrice != 120 {
		t.Fatalf("params should come from store: %v", snap.Params.ElectricityPrice)
	}
	if len(snap.Warnings) != 1 {
		t.Fatalf("want 1 warning, got %v", snap.Warnings)
	}
}
