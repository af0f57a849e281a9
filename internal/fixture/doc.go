// Package fixture defines the three-operation fixture contract, the
// structural Identity used to deduplicate fixture invocations, and the
// Registry that turns a declared fixture type name into a fresh instance.
package fixture
