/*
registry.go - Attribute registration and lookup

PURPOSE:
  Provides a registry for domain packages to register the attributes they
  generate. Factories, renderers and the HTTP layer resolve column names
  coming from JSON, CSV headers or the database back to full metadata
  without importing the domain package.

HOW IT WORKS:
  1. Domain packages define their AttributeInfo values
  2. Domain packages register them on init()
  3. Factory/storage/API use the registry to validate and describe columns

USAGE:
  // In party/attributes.go
  func init() {
      for _, info := range Attributes() {
          generic.RegisterAttribute(info)
      }
  }

  // In factory
  info, ok := generic.LookupAttribute("public_funding")

SEE ALSO:
  - types.go: AttributeInfo definition
  - party/attributes.go: The registered columns
*/
package generic

import "sync"

// =============================================================================
// ATTRIBUTE REGISTRY
// =============================================================================

var (
	attributeRegistry = make(map[Attribute]AttributeInfo)
	registryMu        sync.RWMutex
)

// RegisterAttribute adds an attribute to the global registry.
// Re-registering a name replaces its metadata.
func RegisterAttribute(info AttributeInfo) {
	registryMu.Lock()
	defer registryMu.Unlock()
	attributeRegistry[info.Name] = info
}

// LookupAttribute finds a registered attribute by name.
func LookupAttribute(name Attribute) (AttributeInfo, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	info, ok := attributeRegistry[name]
	return info, ok
}

// ResolveAttribute validates a raw column name against the registry.
func ResolveAttribute(name string, context string) (Attribute, error) {
	a := Attribute(name)
	if _, ok := LookupAttribute(a); !ok {
		return "", &UnknownAttributeError{Attribute: a, Context: context}
	}
	return a, nil
}
