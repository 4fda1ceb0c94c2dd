//go:build !gpu

package gpu2d

// NewStream returns a no-op sink used when the daemon is built without the
// `gpu` tag or no Vulkan-capable device is present. Every pushed command is
// dropped; Flush and Close are no-ops. The compositor falls back to CPU
// compose and a row-by-row framebuffer flush.
func NewStream() Stream {
	return headlessStream{}
}

type headlessStream struct{}

func (headlessStream) Enabled() bool   { return false }
func (headlessStream) Push(Command)    {}
func (headlessStream) Flush()          {}
func (headlessStream) Close()          {}
