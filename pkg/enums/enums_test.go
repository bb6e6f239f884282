package enums

import "testing"

func TestParseProfileRole(t *testing.T) {
	role, err := ParseProfileRole("staff")
	if err != nil {
		t.Fatalf("ParseProfileRole: %v", err)
	}
	if !role.CanManageMembers() {
		t.Fatalf("expected staff to manage members")
	}
	if ProfileRoleMember.CanManageMembers() {
		t.Fatalf("members must not manage members")
	}
	if _, err := ParseProfileRole("owner"); err == nil {
		t.Fatalf("expected unknown role to fail")
	}
}

func TestEngagementTypeIsValid(t *testing.T) {
	for _, value := range []EngagementType{EngagementTypeLike, EngagementTypeView, EngagementTypeShare} {
		if !value.IsValid() {
			t.Fatalf("expected %q to be valid", value)
		}
	}
	if EngagementType("bookmark").IsValid() {
		t.Fatalf("bookmark is not a supported engagement")
	}
}

func TestParseSubscriptionStatusRejectsProviderOnlyStates(t *testing.T) {
	if _, err := ParseSubscriptionStatus("incomplete"); err == nil {
		t.Fatalf("expected incomplete to be rejected")
	}
	status, err := ParseSubscriptionStatus("past_due")
	if err != nil || status != SubscriptionStatusPastDue {
		t.Fatalf("unexpected parse result %q %v", status, err)
	}
}

func TestParsePaymentStatusNormalizes(t *testing.T) {
	status, err := ParsePaymentStatus(" Paid ")
	if err != nil || status != PaymentStatusPaid {
		t.Fatalf("unexpected parse result %q %v", status, err)
	}
	if _, err := ParsePaymentStatus("chargeback"); err == nil {
		t.Fatalf("expected unknown payment status to fail")
	}
}

func TestSubscriptionStatusCurrent(t *testing.T) {
	if !SubscriptionStatusActive.Current() {
		t.Fatalf("active subscriptions are current")
	}
	for _, s := range []SubscriptionStatus{SubscriptionStatusTrialing, SubscriptionStatusPastDue, SubscriptionStatusCanceled} {
		if s.Current() {
			t.Fatalf("%s must not be current", s)
		}
	}
}
