package engine

import (
	"context"
	"testing"

	"saleshealth-monitor/internal/alert"
	"saleshealth-monitor/internal/storage"
	"saleshealth-monitor/internal/warehouse"
)

func customerEngine(customers []warehouse.CustomerHealth) (*Engine, *alert.MemoryStore) {
	sink := alert.NewMemoryStore()
	source := &fakeSource{latest: evalClock, customers: customers}
	registry := &fakeRegistry{monitors: map[storage.MonitorType][]storage.MonitorConfigRecord{
		storage.MonitorCustomer: {monitorOf("cust-1", storage.MonitorCustomer)},
	}}
	return New(source, &fakeBaselines{}, registry, sink), sink
}

func TestCriticalHealthScore(t *testing.T) {
	eng, sink := customerEngine([]warehouse.CustomerHealth{
		{CustomerID: "C1", HealthScore: 20, ValueTier: "Standard"},
		{CustomerID: "C2", HealthScore: 80, ValueTier: "Standard"},
	})
	ctx := context.Background()
	result, err := eng.EvaluateCustomers(ctx, evalClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RecordsChecked != 2 || result.AlertsCreated != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	got := sink.Alerts()[0]
	if got.Type != alert.TypeCriticalHealthScore || got.Severity != alert.SeverityCritical || got.EntityID != "C1" {
		t.Fatalf("unexpected alert: %+v", got)
	}

	// Replaying the pass with no clock advance must not duplicate C1.
	result, err = eng.EvaluateCustomers(ctx, evalClock)
	if err != nil {
		t.Fatalf("unexpected error on replay: %v", err)
	}
	if result.AlertsCreated != 0 {
		t.Fatalf("replay created %d alerts, expected 0", result.AlertsCreated)
	}
	if len(sink.Alerts()) != 1 {
		t.Fatalf("expected one stored alert after replay, got %d", len(sink.Alerts()))
	}
}

func TestHighValueAtRisk(t *testing.T) {
	eng, sink := customerEngine([]warehouse.CustomerHealth{
		{CustomerID: "C1", HealthScore: 70, ValueTier: "Premium", CLV: 125000},
		{CustomerID: "C2", HealthScore: 70, ValueTier: "Standard"},
		{CustomerID: "C3", HealthScore: 70, ValueTier: "High Value", CLV: 90000},
		{CustomerID: "C4", HealthScore: 80, ValueTier: "Premium"},
	})
	result, err := eng.EvaluateCustomers(context.Background(), evalClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AlertsCreated != 2 {
		t.Fatalf("expected 2 alerts, got %d", result.AlertsCreated)
	}
	for _, got := range sink.Alerts() {
		if got.Type != alert.TypeHighValueAtRisk || got.Severity != alert.SeverityHigh {
			t.Fatalf("unexpected alert: %+v", got)
		}
		if got.EntityID != "C1" && got.EntityID != "C3" {
			t.Fatalf("unexpected entity: %s", got.EntityID)
		}
	}
}

func TestCriticalCustomerBothRules(t *testing.T) {
	// A premium customer under the critical floor trips both rules.
	eng, sink := customerEngine([]warehouse.CustomerHealth{
		{CustomerID: "C1", HealthScore: 20, ValueTier: "Premium", CLV: 50000},
	})
	result, err := eng.EvaluateCustomers(context.Background(), evalClock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AlertsCreated != 2 || len(sink.Alerts()) != 2 {
		t.Fatalf("expected both rules to fire, got %+v", result)
	}
}

func TestNoCustomerData(t *testing.T) {
	eng, _ := customerEngine(nil)
	result, err := eng.EvaluateCustomers(context.Background(), evalClock)
	if err != nil {
		t.Fatalf("no data must not fail the evaluator: %v", err)
	}
	if result.RecordsChecked != 0 || result.AlertsCreated != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}
