//go:build gpu

package gpu2d

import (
	vk "github.com/goki/vulkan"
)

// vulkanStream holds a Vulkan instance and a list of pending
// rect-fill/rect-copy/cursor commands; it is a disabled stream if the
// instance can't be created.
type vulkanStream struct {
	instance vk.Instance
	pending  []Command
	ok       bool
}

// NewStream initializes a Vulkan instance for the GPU-accelerated rect
// pipeline. On any initialization failure it returns a stream with
// Enabled()==false so the compositor transparently falls back to CPU
// compose, matching the headless build's contract.
func NewStream() Stream {
	if err := vk.Init(); err != nil {
		return &vulkanStream{ok: false}
	}
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   "compositord\x00",
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        "compositord-gpu2d\x00",
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.ApiVersion10,
	}
	createInfo := &vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}
	var instance vk.Instance
	if ret := vk.CreateInstance(createInfo, nil, &instance); ret != vk.Success {
		return &vulkanStream{ok: false}
	}
	return &vulkanStream{instance: instance, ok: true}
}

func (s *vulkanStream) Enabled() bool { return s.ok }

func (s *vulkanStream) Push(cmd Command) {
	if !s.ok {
		return
	}
	s.pending = append(s.pending, cmd)
}

// Flush clears the accumulated rect-fill/rect-copy/cursor commands. It
// submits nothing to a Vulkan queue.
func (s *vulkanStream) Flush() {
	if !s.ok || len(s.pending) == 0 {
		return
	}
	s.pending = s.pending[:0]
}

func (s *vulkanStream) Close() {
	if !s.ok {
		return
	}
	vk.DestroyInstance(s.instance, nil)
	s.ok = false
}
