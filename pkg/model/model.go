package model

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// RoomType classifies a room by its inferred or labeled purpose
type RoomType string

const (
	RoomTypeLiving   RoomType = "living"
	RoomTypeBedroom  RoomType = "bedroom"
	RoomTypeKitchen  RoomType = "kitchen"
	RoomTypeBathroom RoomType = "bathroom"
	RoomTypeBalcony  RoomType = "balcony"
	RoomTypeStorage  RoomType = "storage"
	RoomTypeUnknown  RoomType = "unknown"
)

// DoorDirection indicates which way a door swings when opened
type DoorDirection string

const (
	DoorDirectionLeft  DoorDirection = "left"
	DoorDirectionRight DoorDirection = "right"
)

// Vertex is a point endpoint shared by one or more walls.
// Coordinates are planar centimeters.
type Vertex struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Pos returns the vertex position as a vector
func (v *Vertex) Pos() r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// Wall is an undirected straight segment between two distinct vertices
type Wall struct {
	ID            string  `json:"id"`
	StartVertexID string  `json:"startVertexId"`
	EndVertexID   string  `json:"endVertexId"`
	Thickness     float64 `json:"thickness"`
}

// Room is a minimal closed polygon (face) of the wall graph.
// Rooms are derived: fully recomputed after every structural mutation.
type Room struct {
	ID        string   `json:"id"`
	VertexIDs []string `json:"vertexIds"` // ordered closed loop, length >= 3
	Color     string   `json:"color"`
	Name      string   `json:"name"`
	Type      RoomType `json:"type,omitempty"`
	Area      float64  `json:"area,omitempty"` // cm²
}

// Door is an opening attached to exactly one wall.
// Position is the fractional distance from the wall's start vertex.
type Door struct {
	ID        string        `json:"id"`
	WallID    string        `json:"wallId"`
	Position  float64       `json:"position"` // in [0,1]
	Width     float64       `json:"width"`
	Direction DoorDirection `json:"direction"`
}

// Window is an opening attached to exactly one wall
type Window struct {
	ID       string  `json:"id"`
	WallID   string  `json:"wallId"`
	Position float64 `json:"position"` // in [0,1]
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// ErrorLevel classifies the severity of an editor error
type ErrorLevel string

const (
	LevelError   ErrorLevel = "error"   // hard, blocks export
	LevelWarning ErrorLevel = "warning" // advisory
	LevelInfo    ErrorLevel = "info"
)

// ErrorType identifies the validation rule that produced an error
type ErrorType string

const (
	ErrNoClosedRoom      ErrorType = "no_closed_room"
	ErrRoomTooSmall      ErrorType = "room_too_small"
	ErrWallTooShort      ErrorType = "wall_too_short"
	ErrWallDeadEnd       ErrorType = "wall_dead_end"
	ErrWallSelfIntersect ErrorType = "wall_self_intersect"
	ErrDoorNoWall        ErrorType = "door_no_wall"
	ErrDoorTooWide       ErrorType = "door_too_wide"
	ErrDoorOutOfWall     ErrorType = "door_out_of_wall"
	ErrWindowNoWall      ErrorType = "window_no_wall"
	ErrWindowTooWide     ErrorType = "window_too_wide"
	ErrWindowOutOfWall   ErrorType = "window_out_of_wall"
	ErrRoomOverlap       ErrorType = "room_overlap"
)

// EditorError is a single validation finding tied to a plan element.
// Errors are transient: fully recomputed on every validation pass.
type EditorError struct {
	ID          string     `json:"id"`
	Type        ErrorType  `json:"type"`
	Level       ErrorLevel `json:"level"`
	Message     string     `json:"message"`
	ElementID   string     `json:"elementId"`
	AutoFixable bool       `json:"autoFixable"`
}

// ValidationResult is the authoritative export gate for a plan snapshot
type ValidationResult struct {
	IsValid   bool          `json:"isValid"`
	CanExport bool          `json:"canExport"`
	Errors    []EditorError `json:"errors"`
	Warnings  []EditorError `json:"warnings"`
	RoomCount int           `json:"roomCount"`
	TotalArea float64       `json:"totalArea"` // cm²
}

// FloorPlan is the boundary record handed to the 3D layer on export.
// It doubles as the on-disk plan format; rooms are derived and ignored
// when a plan is loaded.
type FloorPlan struct {
	Vertices []Vertex `json:"vertices"`
	Walls    []Wall   `json:"walls"`
	Rooms    []Room   `json:"rooms"`
	Doors    []Door   `json:"doors"`
	Windows  []Window `json:"windows"`
}
