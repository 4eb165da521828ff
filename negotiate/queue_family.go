package negotiate

import "github.com/cockroachdb/errors"

// NotFound marks a queue family index that has not been resolved.
const NotFound = -1

// QueueFamilyIndices holds the families the bootstrap needs. Graphics and
// Present may be the same family.
type QueueFamilyIndices struct {
	Graphics int
	Present  int
}

// NewQueueFamilyIndices returns indices with both families unresolved.
func NewQueueFamilyIndices() QueueFamilyIndices {
	return QueueFamilyIndices{Graphics: NotFound, Present: NotFound}
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.Graphics >= 0 && i.Present >= 0
}

// Distinct lists each family once, graphics first.
func (i QueueFamilyIndices) Distinct() []int {
	families := []int{i.Graphics}
	if i.Present != i.Graphics {
		families = append(families, i.Present)
	}
	return families
}

// FindQueueFamilies picks the first graphics-capable family for both roles.
// Present support is assumed to follow graphics support; it is not queried.
func FindQueueFamilies(families []QueueFamilyProperties) QueueFamilyIndices {
	indices := NewQueueFamilyIndices()

	for idx, family := range families {
		if family.Flags&QueueGraphics != 0 {
			indices.Graphics = idx
			indices.Present = idx
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices
}

// QueueResolver turns a device's family list into QueueFamilyIndices.
type QueueResolver func(device int, families []QueueFamilyProperties) (QueueFamilyIndices, error)

// GraphicsImpliesPresent is the default resolver. See FindQueueFamilies.
func GraphicsImpliesPresent(_ int, families []QueueFamilyProperties) (QueueFamilyIndices, error) {
	return FindQueueFamilies(families), nil
}

// PresentSupportQuerier answers whether a family of a device can present to
// the target surface.
type PresentSupportQuerier interface {
	SurfaceSupport(device, family int) (bool, error)
}

// ExplicitPresentSupport returns a resolver that asks the surface about every
// family instead of assuming graphics families can present. A family that
// does both is preferred; otherwise the first graphics family and the first
// presenting family are used independently.
func ExplicitPresentSupport(querier PresentSupportQuerier) QueueResolver {
	return func(device int, families []QueueFamilyProperties) (QueueFamilyIndices, error) {
		indices := NewQueueFamilyIndices()

		for idx, family := range families {
			supported, err := querier.SurfaceSupport(device, idx)
			if err != nil {
				return indices, errors.Wrapf(err, "query present support of family %d", idx)
			}

			graphics := family.Flags&QueueGraphics != 0
			if graphics && supported {
				return QueueFamilyIndices{Graphics: idx, Present: idx}, nil
			}

			if graphics && indices.Graphics == NotFound {
				indices.Graphics = idx
			}
			if supported && indices.Present == NotFound {
				indices.Present = idx
			}
		}

		return indices, nil
	}
}
