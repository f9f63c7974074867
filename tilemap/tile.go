package tilemap

// Tile is the render-layer descriptor stored per cell: which texture
// the cell draws and which registered animation it plays, if any
type Tile struct {
	TextureIndex uint32 `toml:"texture_index"`
	AnimIndex    int    `toml:"anim_index"` // -1 when static
}

// NewTile returns a static tile
func NewTile(textureIndex uint32) Tile {
	return Tile{TextureIndex: textureIndex, AnimIndex: -1}
}
