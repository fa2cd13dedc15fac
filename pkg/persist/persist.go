package persist

import (
	"bufio"
	"io"
	"os"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// Magic identifies the container format.
const Magic = "DGMP"

// CurrentVersion is written by every Save call.
const CurrentVersion uint32 = 10

// MinSupportedVersion is the oldest container version Load will decode.
const MinSupportedVersion uint32 = 1

// Version gates at which optional sections or fields were introduced. Named
// per spec §6.2/§6.3 so the version branches in Decode read the same way the
// table in the spec does.
const (
	versionGenClass        = 2
	versionRoomTypeID      = 3
	versionSnapshot        = 4
	versionLegacyProcess   = 5
	versionTaggedProcess   = 6
	versionPathSmoothFlags = 8 // v<=7 infers inner=1/outer=0; v>=8 stores both
	versionDiagnostics     = 9
)

// Save writes m to path as a version-CurrentVersion container.
func Save(m *tilemap.Map, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return dgerr.Wrap("persist.Save", dgerr.IOError, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := Encode(m, bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return dgerr.Wrap("persist.Save", dgerr.IOError, err)
	}
	return nil
}

// Load reads a container from path and reconstructs a Map. It matches the
// template.LoadFunc and dungeon.Generator.LoadTemplate signature so a host
// can wire it in directly.
func Load(path string) (*tilemap.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, dgerr.Wrap("persist.Load", dgerr.IOError, err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}

// Encode writes m to w in the current container format.
func Encode(m *tilemap.Map, w io.Writer) error {
	bw := &writer{w: w}

	bw.bytes([]byte(Magic))
	bw.u32(CurrentVersion)
	bw.u32(uint32(m.Width))
	bw.u32(uint32(m.Height))
	bw.u64(uint64(len(m.Tiles)))
	bw.u64(m.Metrics.Seed)
	bw.i32(int32(m.Metrics.AlgorithmID))
	bw.i32(int32(m.Metrics.GenerationClass))
	bw.u64(m.Metrics.GenerationAttempts)
	bw.bool(m.Metrics.ConnectedFloor)
	bw.u64(uint64(len(m.Rooms)))
	bw.u64(uint64(len(m.Corridors)))
	bw.u64(uint64(len(m.RoomAdjacency)))
	bw.u64(uint64(len(m.RoomNeighbors)))

	encodeMetricBlock(bw, &m.Metrics)

	for _, t := range m.Tiles {
		bw.u8(uint8(t))
	}
	for _, rm := range m.Rooms {
		bw.i32(rm.ID)
		bw.i32(rm.Bounds.X)
		bw.i32(rm.Bounds.Y)
		bw.i32(rm.Bounds.Width)
		bw.i32(rm.Bounds.Height)
		bw.u32(uint32(rm.Flags))
		bw.i32(int32(rm.Role))
		bw.u32(rm.TypeID)
	}
	for _, c := range m.Corridors {
		bw.i32(c.FromRoomID)
		bw.i32(c.ToRoomID)
		bw.i32(c.Width)
		bw.i32(c.Length)
	}
	for _, a := range m.RoomAdjacency {
		bw.u64(a.StartIndex)
		bw.u64(a.Count)
	}
	for _, n := range m.RoomNeighbors {
		bw.i32(n.RoomID)
		bw.i32(n.CorridorIdx)
	}

	encodeSnapshot(bw, &m.Request)
	encodeDiagnostics(bw, &m.Diagnostics)

	if bw.err != nil {
		return dgerr.Wrap("persist.Encode", dgerr.IOError, bw.err)
	}
	return nil
}

// encodeMetricBlock writes the ten u64 + i32 + u64 + two i32 fields in the order
// declared by spec §4.2 (tilemap.Metrics field order).
func encodeMetricBlock(bw *writer, m *tilemap.Metrics) {
	bw.u64(m.WalkableTileCount)
	bw.u64(m.WallTileCount)
	bw.u64(m.SpecialRoomCount)
	bw.u64(m.EntranceRoomCount)
	bw.u64(m.ExitRoomCount)
	bw.u64(m.BossRoomCount)
	bw.u64(m.TreasureRoomCount)
	bw.u64(m.ShopRoomCount)
	bw.u64(m.ConnectedComponentCount)
	bw.u64(m.LargestComponentSize)
	bw.i32(m.EntranceExitDistance)
	bw.u64(m.CorridorTotalLength)
	bw.i32(m.PrimaryEntranceOpening)
	bw.i32(m.PrimaryExitOpening)
}

func decodeMetricBlock(br *reader) tilemap.Metrics {
	var m tilemap.Metrics
	m.WalkableTileCount = br.u64()
	m.WallTileCount = br.u64()
	m.SpecialRoomCount = br.u64()
	m.EntranceRoomCount = br.u64()
	m.ExitRoomCount = br.u64()
	m.BossRoomCount = br.u64()
	m.TreasureRoomCount = br.u64()
	m.ShopRoomCount = br.u64()
	m.ConnectedComponentCount = br.u64()
	m.LargestComponentSize = br.u64()
	m.EntranceExitDistance = br.i32()
	m.CorridorTotalLength = br.u64()
	m.PrimaryEntranceOpening = br.i32()
	m.PrimaryExitOpening = br.i32()
	return m
}

// Decode reads a container from r and reconstructs a Map, skipping fields
// the container's version predates per the table in spec §6.2-§6.4.
func Decode(r io.Reader) (*tilemap.Map, error) {
	br := &reader{r: r}

	magic := br.bytesN(4)
	if br.err != nil {
		return nil, ioErr("persist.Decode", br.err)
	}
	if string(magic) != Magic {
		return nil, dgerr.New("persist.Decode", dgerr.UnsupportedFormat)
	}

	version := br.u32()
	if br.err != nil {
		return nil, ioErr("persist.Decode", br.err)
	}
	if version < MinSupportedVersion || version > CurrentVersion {
		return nil, dgerr.New("persist.Decode", dgerr.UnsupportedFormat)
	}

	width := int32(br.u32())
	height := int32(br.u32())
	tileCount := br.u64()
	if tileCount != uint64(width)*uint64(height) {
		return nil, dgerr.New("persist.Decode", dgerr.UnsupportedFormat)
	}

	seed := br.u64()
	algoID := br.i32()
	var genClass int32
	if version >= versionGenClass {
		genClass = br.i32()
	}

	attempts := br.u64()
	connected := br.boolean()
	roomCount := br.u64()
	corridorCount := br.u64()
	adjCount := br.u64()
	neighCount := br.u64()

	metrics := decodeMetricBlock(br)
	metrics.Seed = seed
	metrics.AlgorithmID = tilemap.Algorithm(algoID)
	metrics.GenerationAttempts = attempts
	metrics.ConnectedFloor = connected
	if version >= versionGenClass {
		metrics.GenerationClass = tilemap.GenerationClass(genClass)
	} else if roomCount > 0 {
		metrics.GenerationClass = tilemap.ClassRoomLike
	} else {
		metrics.GenerationClass = tilemap.ClassCaveLike
	}

	if br.err != nil {
		return nil, ioErr("persist.Decode", br.err)
	}

	m := &tilemap.Map{}
	m.Init(width, height, tilemap.Void)
	m.Metrics = metrics

	tiles := br.bytesN(tileCount)
	if br.err != nil {
		return nil, ioErr("persist.Decode", br.err)
	}
	m.Tiles = make([]tilemap.Tile, tileCount)
	for i, b := range tiles {
		t := tilemap.Tile(b)
		if !t.Valid() {
			return nil, dgerr.New("persist.Decode", dgerr.UnsupportedFormat)
		}
		m.Tiles[i] = t
	}

	m.Rooms = make([]tilemap.Room, roomCount)
	for i := range m.Rooms {
		rm := tilemap.Room{
			ID: br.i32(),
			Bounds: tilemap.Rect{
				X: br.i32(), Y: br.i32(), Width: br.i32(), Height: br.i32(),
			},
			Flags: tilemap.RoomFlags(br.u32()),
			Role:  tilemap.RoomRole(br.i32()),
		}
		if version >= versionRoomTypeID {
			rm.TypeID = br.u32()
		} else {
			rm.TypeID = tilemap.UnassignedType
		}
		m.Rooms[i] = rm
	}

	m.Corridors = make([]tilemap.Corridor, corridorCount)
	for i := range m.Corridors {
		m.Corridors[i] = tilemap.Corridor{
			FromRoomID: br.i32(), ToRoomID: br.i32(), Width: br.i32(), Length: br.i32(),
		}
	}

	m.RoomAdjacency = make([]tilemap.RoomAdjacency, adjCount)
	for i := range m.RoomAdjacency {
		m.RoomAdjacency[i] = tilemap.RoomAdjacency{StartIndex: br.u64(), Count: br.u64()}
	}
	if int(adjCount) > len(m.Rooms) {
		return nil, dgerr.New("persist.Decode", dgerr.UnsupportedFormat)
	}

	m.RoomNeighbors = make([]tilemap.RoomNeighbor, neighCount)
	for i := range m.RoomNeighbors {
		n := tilemap.RoomNeighbor{RoomID: br.i32(), CorridorIdx: br.i32()}
		if int(n.RoomID) >= len(m.Rooms) || n.RoomID < 0 {
			return nil, dgerr.New("persist.Decode", dgerr.UnsupportedFormat)
		}
		m.RoomNeighbors[i] = n
	}
	for _, a := range m.RoomAdjacency {
		if a.StartIndex+a.Count > uint64(len(m.RoomNeighbors)) {
			return nil, dgerr.New("persist.Decode", dgerr.UnsupportedFormat)
		}
	}

	if br.err != nil {
		return nil, ioErr("persist.Decode", br.err)
	}

	if version >= versionSnapshot {
		req, err := decodeSnapshot(br, version)
		if err != nil {
			return nil, err
		}
		m.Request = req
	}
	if version >= versionDiagnostics {
		diag, err := decodeDiagnostics(br)
		if err != nil {
			return nil, err
		}
		m.Diagnostics = diag
	}

	if br.err != nil {
		return nil, ioErr("persist.Decode", br.err)
	}
	return m, nil
}
