package tileset

// Sheet holds the tile geometry of the bundled tileset. Each tile is a
// TileWidth x TileHeight diamond standing TileThickness pixels tall.
type Sheet struct {
	TileWidth     int
	TileHeight    int
	TileThickness int
}

// DefaultSheet is the geometry of the bundled tileset.
var DefaultSheet = Sheet{
	TileWidth:     32,
	TileHeight:    16,
	TileThickness: 4,
}
