package options

import "testing"

func validOptions() *Options {
	o := NewOptions()
	o.WireGuard.RouterID = "193.10.10.1"
	o.WireGuard.LocalASN = 4242420000
	return o
}

func TestOptionsValidateAcceptsDefaults(t *testing.T) {
	errs := validOptions().Validate()
	if len(errs) != 0 {
		t.Fatalf("Validate: unexpected errors on an otherwise-complete config: %v", errs)
	}
}

func TestOptionsValidateCatchesMissingWireGuardFields(t *testing.T) {
	o := NewOptions()

	errs := o.Validate()
	if len(errs) == 0 {
		t.Fatal("Validate: expected errors for unset wireguard.router-id and wireguard.local-asn")
	}
}

func TestOptionsValidateCatchesBadHTTPPort(t *testing.T) {
	o := validOptions()
	o.InsecureServing.BindPort = 0

	errs := o.Validate()
	if len(errs) == 0 {
		t.Fatal("Validate: expected an error for an out-of-range http.port")
	}
}

func TestOptionsValidateCatchesEmptyRegistryRoot(t *testing.T) {
	o := validOptions()
	o.Registry.Registry = ""

	errs := o.Validate()
	if len(errs) == 0 {
		t.Fatal("Validate: expected an error for an empty autopeer.registry")
	}
}

func TestOptionsValidateCatchesNonPositiveSessionCapacity(t *testing.T) {
	o := validOptions()
	o.Session.Capacity = 0

	errs := o.Validate()
	if len(errs) == 0 {
		t.Fatal("Validate: expected an error for a non-positive jwt.capacity")
	}
}
