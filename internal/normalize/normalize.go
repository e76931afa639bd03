package normalize

import "strings"

// Scrub uppercases text and drops every byte outside A–Z.
func Scrub(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if IsLetter(c) {
			sb.WriteByte(Upper(c))
		}
	}
	return sb.String()
}

// Pad appends filler until len(seq) is a multiple of blockSize.
func Pad(seq string, blockSize int, filler byte) string {
	if blockSize <= 1 {
		return seq
	}
	rem := len(seq) % blockSize
	if rem == 0 {
		return seq
	}
	return seq + strings.Repeat(string(filler), blockSize-rem)
}

// MergeIdentified replaces every occurrence of from with to.
func MergeIdentified(seq string, from, to byte) string {
	return strings.ReplaceAll(seq, string(from), string(to))
}

// Digraph is a pair of letters processed as one unit.
type Digraph [2]byte

func (d Digraph) String() string {
	return string(d[:])
}

// SplitDigraphs pairs up seq, inserting filler between two identical letters
// that would otherwise share a pair. Scanning advances a full pair after each
// check, so a run like "AAA" becomes AX AX AX. An odd remainder is padded with filler.
func SplitDigraphs(seq string, filler byte) []Digraph {
	buf := []byte(seq)
	for i := 0; i < len(buf)-1; i += 2 {
		if buf[i] == buf[i+1] {
			buf = append(buf[:i+1], append([]byte{filler}, buf[i+1:]...)...)
		}
	}
	if len(buf)%2 != 0 {
		buf = append(buf, filler)
	}

	out := make([]Digraph, 0, len(buf)/2)
	for i := 0; i < len(buf); i += 2 {
		out = append(out, Digraph{buf[i], buf[i+1]})
	}
	return out
}

// JoinDigraphs concatenates digraphs back into a single string.
func JoinDigraphs(ds []Digraph) string {
	var sb strings.Builder
	sb.Grow(len(ds) * 2)
	for _, d := range ds {
		sb.Write(d[:])
	}
	return sb.String()
}
