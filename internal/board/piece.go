package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// forward is the rank direction pawns of this color advance in.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// PromotionTypes are the kinds a pawn may promote to, in search order.
var PromotionTypes = [4]PieceType{Knight, Bishop, Rook, Queen}

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Letter returns the uppercase letter for the piece type ('P', 'N', ...).
func (pt PieceType) Letter() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "PNBRQK"[pt]
}

// CanPromoteTo reports whether a pawn may become this piece type.
func (pt PieceType) CanPromoteTo() bool {
	return pt >= Knight && pt <= Queen
}

// Piece is a piece on the board. The two flags are tied to the piece kind:
// EnPassant is only meaningful for pawns, Moved only for rooks and kings.
// The zero value is not an empty square; use NoPiece.
type Piece struct {
	Type  PieceType
	Color Color

	enPassant bool
	moved     bool
}

// NoPiece marks an empty square.
var NoPiece = Piece{Type: NoPieceType, Color: NoColor}

// NewPiece creates an unflagged Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece{Type: pt, Color: c}
}

// IsEmpty returns true for NoPiece.
func (p Piece) IsEmpty() bool {
	return p.Type >= NoPieceType
}

// Is reports whether p is a piece of the given type and color.
func (p Piece) Is(pt PieceType, c Color) bool {
	return p.Type == pt && p.Color == c
}

// EnPassant reports whether this pawn may be captured en passant.
// Always false for other kinds.
func (p Piece) EnPassant() bool {
	return p.Type == Pawn && p.enPassant
}

// HasMoved reports whether this rook or king has moved.
// Always false for other kinds.
func (p Piece) HasMoved() bool {
	return (p.Type == Rook || p.Type == King) && p.moved
}

// WithEnPassant returns a copy of the pawn with its en passant flag set
// to v. Other kinds are returned unchanged.
func (p Piece) WithEnPassant(v bool) Piece {
	if p.Type == Pawn {
		p.enPassant = v
	}
	return p
}

// WithMoved returns a copy of the rook or king marked as moved.
// Other kinds are returned unchanged.
func (p Piece) WithMoved() Piece {
	if p.Type == Rook || p.Type == King {
		p.moved = true
	}
	return p
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p.IsEmpty() {
		return " "
	}
	chars := "PNBRQKpnbrqk"
	return string(chars[int(p.Type)+int(p.Color)*6])
}

// PieceFromChar converts a FEN character to an unflagged Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return NewPiece(Pawn, White)
	case 'N':
		return NewPiece(Knight, White)
	case 'B':
		return NewPiece(Bishop, White)
	case 'R':
		return NewPiece(Rook, White)
	case 'Q':
		return NewPiece(Queen, White)
	case 'K':
		return NewPiece(King, White)
	case 'p':
		return NewPiece(Pawn, Black)
	case 'n':
		return NewPiece(Knight, Black)
	case 'b':
		return NewPiece(Bishop, Black)
	case 'r':
		return NewPiece(Rook, Black)
	case 'q':
		return NewPiece(Queen, Black)
	case 'k':
		return NewPiece(King, Black)
	default:
		return NoPiece
	}
}
