package presentation

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

// UniqueFamilies lists the families a logical device must request queues from: the
// graphics family, followed by the present family when it differs.
func (i QueueFamilyIndices) UniqueFamilies() []int {
	var families []int
	if i.GraphicsFamily != nil {
		families = append(families, *i.GraphicsFamily)
	}
	if i.PresentFamily != nil && (i.GraphicsFamily == nil || *i.PresentFamily != *i.GraphicsFamily) {
		families = append(families, *i.PresentFamily)
	}
	return families
}

// ResolveQueueFamilies finds the first graphics-capable family and the first family
// able to present to surface. Graphics capability does not imply present support, so
// every family is asked separately. An incomplete result is not an error.
func ResolveQueueFamilies(driver SurfaceDriver, device core1_0.PhysicalDevice, surface khr_surface.Surface) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}

	for _, family := range driver.QueueFamilies(device) {
		if indices.GraphicsFamily == nil && family.Graphics {
			index := family.Index
			indices.GraphicsFamily = &index
		}

		if indices.PresentFamily == nil {
			supported, err := driver.SurfaceSupport(device, surface, family.Index)
			if err != nil {
				return indices, errors.Wrapf(err, "resolve queue families: surface support for family %d", family.Index)
			}

			if supported {
				index := family.Index
				indices.PresentFamily = &index
			}
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}
