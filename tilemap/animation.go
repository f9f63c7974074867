package tilemap

import "fmt"

// MaxAnimSeqLength bounds one animation's frame sequence. The GPU
// uniform packs frames four to an integer group, so the encoded form
// is MaxAnimSeqLength/4 groups.
const MaxAnimSeqLength = 32

// TileAnimation is a texture-index sequence packed into 4-wide
// integer groups for upload. Seq grouping preserves the encoder's
// boundary behavior exactly: the bulk loop advances while
// length+4 < len(sequence) and the remainder loop fills the final
// group, so an exact multiple of four ends with no padding group.
type TileAnimation struct {
	Seq    [MaxAnimSeqLength / 4][4]uint32
	Length uint32
	Fps    float32
}

// NewTileAnimation encodes a frame sequence. A sequence at or above
// MaxAnimSeqLength is a configuration error.
func NewTileAnimation(sequence []uint32, fps float32) (TileAnimation, error) {
	if len(sequence) >= MaxAnimSeqLength {
		return TileAnimation{}, fmt.Errorf("tilemap: animation sequence too long: %d, max is %d", len(sequence), MaxAnimSeqLength)
	}

	var anim TileAnimation
	index := 0
	length := 0
	for length+4 < len(sequence) {
		anim.Seq[index] = [4]uint32{
			sequence[length],
			sequence[length+1],
			sequence[length+2],
			sequence[length+3],
		}
		index++
		length += 4
	}
	for i := 0; i < 4; i++ {
		if length+i < len(sequence) {
			anim.Seq[index][i] = sequence[length+i]
		}
	}

	anim.Length = uint32(len(sequence))
	anim.Fps = fps
	return anim, nil
}
