package presentation

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

func resolve(t *testing.T, driver *fakeDriver) QueueFamilyIndices {
	t.Helper()

	var device core1_0.PhysicalDevice
	var surface khr_surface.Surface
	indices, err := ResolveQueueFamilies(driver, device, surface)
	if err != nil {
		t.Fatalf("ResolveQueueFamilies() failed: %+v", err)
	}
	return indices
}

func TestResolveQueueFamiliesCombinedFamily(t *testing.T) {
	driver := newFakeDriver()
	driver.families = []QueueFamily{
		{Index: 0},
		{Index: 1, Graphics: true},
		{Index: 2, Graphics: true},
	}
	driver.presentFamilies = map[int]bool{1: true, 2: true}

	indices := resolve(t, driver)
	if !indices.IsComplete() {
		t.Fatalf("indices incomplete: %+v", indices)
	}
	if *indices.GraphicsFamily != 1 || *indices.PresentFamily != 1 {
		t.Errorf("indices\nhave graphics=%d present=%d\nwant graphics=1 present=1", *indices.GraphicsFamily, *indices.PresentFamily)
	}
	if !reflect.DeepEqual(driver.supportCalls, []int{0, 1}) {
		t.Errorf("surface support queried for %v, want scan to stop at family 1", driver.supportCalls)
	}
}

func TestResolveQueueFamiliesSeparateFamilies(t *testing.T) {
	driver := newFakeDriver()
	driver.families = []QueueFamily{
		{Index: 0, Graphics: true},
		{Index: 1, Graphics: true},
		{Index: 2},
	}
	driver.presentFamilies = map[int]bool{2: true}

	indices := resolve(t, driver)
	if *indices.GraphicsFamily != 0 {
		t.Errorf("graphics family\nhave %d\nwant 0 (first match wins)", *indices.GraphicsFamily)
	}
	if *indices.PresentFamily != 2 {
		t.Errorf("present family\nhave %d\nwant 2", *indices.PresentFamily)
	}
}

func TestResolveQueueFamiliesPresentBeforeGraphics(t *testing.T) {
	driver := newFakeDriver()
	driver.families = []QueueFamily{
		{Index: 0},
		{Index: 1, Graphics: true},
	}
	driver.presentFamilies = map[int]bool{0: true, 1: true}

	indices := resolve(t, driver)
	if *indices.GraphicsFamily != 1 || *indices.PresentFamily != 0 {
		t.Errorf("indices\nhave graphics=%d present=%d\nwant graphics=1 present=0", *indices.GraphicsFamily, *indices.PresentFamily)
	}
	if !reflect.DeepEqual(driver.supportCalls, []int{0}) {
		t.Errorf("surface support queried for %v, want only family 0", driver.supportCalls)
	}
}

func TestResolveQueueFamiliesIncomplete(t *testing.T) {
	driver := newFakeDriver()
	driver.families = []QueueFamily{{Index: 0, Graphics: true}, {Index: 1}}
	driver.presentFamilies = map[int]bool{}

	indices := resolve(t, driver)
	if indices.IsComplete() {
		t.Fatalf("indices complete without a present family: %+v", indices)
	}
	if indices.PresentFamily != nil {
		t.Errorf("present family\nhave %d\nwant nil", *indices.PresentFamily)
	}
	if indices.GraphicsFamily == nil || *indices.GraphicsFamily != 0 {
		t.Errorf("graphics family\nhave %v\nwant 0", indices.GraphicsFamily)
	}
}

func TestResolveQueueFamiliesDriverError(t *testing.T) {
	driver := newFakeDriver()
	driver.supportErr = errors.New("device lost")

	var device core1_0.PhysicalDevice
	var surface khr_surface.Surface
	_, err := ResolveQueueFamilies(driver, device, surface)
	if err == nil {
		t.Fatal("ResolveQueueFamilies() succeeded with a failing driver")
	}
	if IsInadequate(err) {
		t.Errorf("driver failure reported as inadequate device: %v", err)
	}
}

func TestUniqueFamilies(t *testing.T) {
	tests := []struct {
		name    string
		indices QueueFamilyIndices
		want    []int
	}{
		{"same", QueueFamilyIndices{GraphicsFamily: intPtr(0), PresentFamily: intPtr(0)}, []int{0}},
		{"different", QueueFamilyIndices{GraphicsFamily: intPtr(0), PresentFamily: intPtr(2)}, []int{0, 2}},
		{"graphics only", QueueFamilyIndices{GraphicsFamily: intPtr(1)}, []int{1}},
		{"empty", QueueFamilyIndices{}, nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			have := test.indices.UniqueFamilies()
			if !reflect.DeepEqual(have, test.want) {
				t.Errorf("UniqueFamilies()\nhave %v\nwant %v", have, test.want)
			}
		})
	}
}
