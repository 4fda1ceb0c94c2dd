// Package wsproto implements the client<->compositor wire schema: fixed
// 5-word [op,a,b,c,d] tuples for commands, responses, and events, plus the
// packed title and menu-tree encodings.
package wsproto

// Message is the fixed wire tuple every command, response, and event uses.
type Message struct {
	Op   uint32
	A, B, C, D uint32
}

// Commands (client -> compositor).
const (
	CmdCreateWindow uint32 = iota + 1
	CmdDestroyWindow
	CmdPresent
	CmdSetTitle
	CmdMoveWindow
	CmdSetMenu
	CmdAddStatusIcon
	CmdRemoveStatusIcon
	CmdUpdateMenuItem
	CmdResizeShm
	CmdRegisterSub
	CmdFocusByTid
	// CmdAllocShm requests a new SHM region of A bytes, answered with
	// RespShmAllocated before any lock-held command references the
	// resulting handle. It is handled directly against the registry, never
	// routed through the desktop, since the underlying mmap/memfd_create
	// call is the one genuinely expensive step in the whole protocol.
	CmdAllocShm
)

// Responses (compositor -> client).
const (
	RespWindowCreated uint32 = iota + 1
	RespWindowDestroyed
	RespMenuSet
	RespShmAllocated
)

// Events (compositor -> client).
const (
	EvtKeyDown uint32 = iota + 1
	EvtKeyUp
	EvtMouseDown
	EvtMouseUp
	EvtMouseMove
	EvtMouseScroll
	EvtResize
	EvtWindowClose
	EvtMenuItem
	EvtStatusIconClick
)

// Window flag bitmask.
const (
	FlagBorderless   uint32 = 0x01
	FlagNotResizable uint32 = 0x02
	FlagAlwaysOnTop  uint32 = 0x04
)

// PackTitle packs up to 12 ASCII bytes of title into three little-endian
// words.
func PackTitle(title string) (w0, w1, w2 uint32) {
	var b [12]byte
	copy(b[:], title)
	w0 = leWord(b[0:4])
	w1 = leWord(b[4:8])
	w2 = leWord(b[8:12])
	return
}

// UnpackTitle reverses PackTitle, trimming trailing NUL bytes.
func UnpackTitle(w0, w1, w2 uint32) string {
	var b [12]byte
	putLeWord(b[0:4], w0)
	putLeWord(b[4:8], w1)
	putLeWord(b[8:12], w2)
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}

// MessageSize is the fixed wire size of an encoded Message: five
// little-endian u32 words.
const MessageSize = 20

// EncodeMessage serializes m as five little-endian u32 words.
func EncodeMessage(m Message) []byte {
	buf := make([]byte, MessageSize)
	putLeWord(buf[0:4], m.Op)
	putLeWord(buf[4:8], m.A)
	putLeWord(buf[8:12], m.B)
	putLeWord(buf[12:16], m.C)
	putLeWord(buf[16:20], m.D)
	return buf
}

// DecodeMessage reverses EncodeMessage. buf must be at least MessageSize
// bytes.
func DecodeMessage(buf []byte) Message {
	return Message{
		Op: leWord(buf[0:4]),
		A:  leWord(buf[4:8]),
		B:  leWord(buf[8:12]),
		C:  leWord(buf[12:16]),
		D:  leWord(buf[16:20]),
	}
}

func leWord(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeWord(b []byte, w uint32) {
	b[0] = byte(w)
	b[1] = byte(w >> 8)
	b[2] = byte(w >> 16)
	b[3] = byte(w >> 24)
}

// MenuEntryKind is the closed set of menu-tree node kinds in the flat SHM
// encoding: a 1-byte kind, id (u32), flags (u32), label length (u8), label
// bytes; submenus are bracketed by SubmenuBegin/SubmenuEnd.
type MenuEntryKind byte

const (
	MenuSeparator MenuEntryKind = iota
	MenuLeaf
	MenuSubmenuBegin
	MenuSubmenuEnd
)

// Menu item flag bits.
const (
	MenuItemEnabled uint32 = 0x01
	MenuItemChecked uint32 = 0x02
)

// MenuItem is a decoded node of a MenuDefinition tree.
type MenuItem struct {
	Kind  MenuEntryKind
	ID    uint32
	Flags uint32
	Label string
	Items []MenuItem // populated for submenus
}

// MenuDefinition is a full menu tree owned by a window id: an ordered list
// of top-level menu titles, each with an ordered item list.
type MenuDefinition struct {
	Menus []Menu
}

type Menu struct {
	Title string
	Items []MenuItem
}

// EncodeMenuTree serializes a MenuDefinition into the flat byte encoding
// SET_MENU transfers over SHM.
func EncodeMenuTree(def MenuDefinition) []byte {
	var out []byte
	for _, m := range def.Menus {
		out = appendMenuHeader(out, m.Title)
		out = encodeItems(out, m.Items)
	}
	return out
}

func appendMenuHeader(out []byte, title string) []byte {
	out = append(out, byte(MenuSubmenuBegin))
	out = append(out, 0, 0, 0, 0) // id unused for top-level menu titles
	out = append(out, 0, 0, 0, 0) // flags unused
	out = append(out, byte(len(title)))
	out = append(out, title...)
	return out
}

func encodeItems(out []byte, items []MenuItem) []byte {
	for _, it := range items {
		switch it.Kind {
		case MenuSeparator:
			out = append(out, byte(MenuSeparator))
			out = append(out, 0, 0, 0, 0, 0, 0, 0, 0, 0)
		case MenuSubmenuBegin:
			out = append(out, byte(MenuSubmenuBegin))
			out = appendU32(out, it.ID)
			out = appendU32(out, it.Flags)
			out = append(out, byte(len(it.Label)))
			out = append(out, it.Label...)
			out = encodeItems(out, it.Items)
			out = append(out, byte(MenuSubmenuEnd))
			out = append(out, make([]byte, 9)...)
		default:
			out = append(out, byte(MenuLeaf))
			out = appendU32(out, it.ID)
			out = appendU32(out, it.Flags)
			out = append(out, byte(len(it.Label)))
			out = append(out, it.Label...)
		}
	}
	out = append(out, byte(MenuSubmenuEnd))
	out = append(out, make([]byte, 9)...)
	return out
}

func appendU32(out []byte, v uint32) []byte {
	return append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// DecodeMenuTree parses the flat SHM encoding back into a MenuDefinition.
// Malformed input (truncated entries) stops decoding at the point of
// truncation rather than erroring, matching the log-and-ignore policy for
// invalid-argument class failures.
func DecodeMenuTree(buf []byte) MenuDefinition {
	var def MenuDefinition
	pos := 0
	for pos < len(buf) {
		kind := MenuEntryKind(buf[pos])
		if kind != MenuSubmenuBegin {
			break
		}
		pos++
		if pos+9 > len(buf) {
			break
		}
		pos += 8 // id, flags unused for a top-level title
		labelLen := int(buf[pos])
		pos++
		if pos+labelLen > len(buf) {
			break
		}
		title := string(buf[pos : pos+labelLen])
		pos += labelLen
		items, next := decodeItems(buf, pos)
		def.Menus = append(def.Menus, Menu{Title: title, Items: items})
		pos = next
	}
	return def
}

func decodeItems(buf []byte, pos int) ([]MenuItem, int) {
	var items []MenuItem
	for pos < len(buf) {
		kind := MenuEntryKind(buf[pos])
		pos++
		if kind == MenuSubmenuEnd {
			pos += 9
			return items, pos
		}
		if pos+9 > len(buf) {
			return items, pos
		}
		id := readU32(buf[pos:])
		flags := readU32(buf[pos+4:])
		pos += 8
		labelLen := int(buf[pos])
		pos++
		if pos+labelLen > len(buf) {
			return items, pos
		}
		label := string(buf[pos : pos+labelLen])
		pos += labelLen
		switch kind {
		case MenuSeparator:
			items = append(items, MenuItem{Kind: MenuSeparator})
		case MenuSubmenuBegin:
			sub, next := decodeItems(buf, pos)
			items = append(items, MenuItem{Kind: MenuSubmenuBegin, ID: id, Flags: flags, Label: label, Items: sub})
			pos = next
		default:
			items = append(items, MenuItem{Kind: MenuLeaf, ID: id, Flags: flags, Label: label})
		}
	}
	return items, pos
}

func readU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
