package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/DinnerBuffet/CubicChunks/internal/world"
	"github.com/DinnerBuffet/CubicChunks/pkg/coord"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("storage: store closed")

const dbFile = "cubes.db"

// Store persists cubes in a SQLite database under a world directory. Cube
// payloads are zstd compressed. A Store implements world.CubeSource and is
// safe for concurrent use.
type Store struct {
	dir string
	db  *sql.DB
	log *slog.Logger

	enc *zstd.Encoder
	dec *zstd.Decoder

	once   sync.Once
	closed atomic.Bool
}

var _ world.CubeSource = (*Store)(nil)

// Open opens or creates the world store in dir.
func Open(ctx context.Context, dir string, log *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("open store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init pragmas: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}
	log.Info("store opened", "path", path)
	return &Store{dir: dir, db: db, log: log, enc: enc, dec: dec}, nil
}

func initPragmas(ctx context.Context, db *sql.DB) error {
	// Cubes are written in batches from a single host.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cubes (
			key INTEGER PRIMARY KEY,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			stage INTEGER NOT NULL,
			data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cubes_column ON cubes(x, z, y);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Dir returns the world directory.
func (s *Store) Dir() string { return s.dir }

// HasCube reports whether the cube at (x, y, z) is stored.
func (s *Store) HasCube(ctx context.Context, x, y, z int) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	key, err := coord.PackCube(x, y, z)
	if err != nil {
		return false, err
	}
	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM cubes WHERE key = ?`, int64(key)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query cube %d,%d,%d: %w", x, y, z, err)
	}
	return true, nil
}

// LoadCube returns the stored cube at (x, y, z), or nil if it is not stored.
func (s *Store) LoadCube(ctx context.Context, x, y, z int) (*world.StoredCube, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	key, err := coord.PackCube(x, y, z)
	if err != nil {
		return nil, err
	}

	var (
		stage int
		data  []byte
	)
	err = s.db.QueryRowContext(ctx, `SELECT stage, data FROM cubes WHERE key = ?`, int64(key)).Scan(&stage, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cube %d,%d,%d: %w", x, y, z, err)
	}

	st, err := storedStage(stage)
	if err != nil {
		return nil, fmt.Errorf("load cube %d,%d,%d: %w", x, y, z, err)
	}
	stored := &world.StoredCube{Stage: st}
	if err := s.decodeBlocks(data, &stored.Blocks); err != nil {
		return nil, fmt.Errorf("load cube %d,%d,%d: %w", x, y, z, err)
	}
	return stored, nil
}

// storedStage converts a stage column value, rejecting values no stage has.
func storedStage(v int) (gen.Stage, error) {
	if v < 0 || v > int(gen.LastStage()) {
		return 0, fmt.Errorf("stage %d: %w", v, ErrCorrupt)
	}
	return gen.Stage(v), nil
}

// record is one row of the cubes table.
type record struct {
	x, y, z int
	stage   gen.Stage
	blocks  gen.Blocks
}

// SaveCubes writes the dirty cubes among cubes in a single transaction and
// marks them clean. It returns the number of cubes written.
func (s *Store) SaveCubes(ctx context.Context, cubes []*world.Cube) (int, error) {
	var (
		recs  []record
		dirty []*world.Cube
		revs  []uint64
	)
	for _, c := range cubes {
		if !c.Dirty() {
			continue
		}
		blocks, stage, rev := c.Snapshot()
		x, y, z := c.Coords()
		recs = append(recs, record{x: x, y: y, z: z, stage: stage, blocks: blocks})
		dirty = append(dirty, c)
		revs = append(revs, rev)
	}

	if err := s.put(ctx, recs); err != nil {
		return 0, err
	}
	for i, c := range dirty {
		c.MarkClean(revs[i])
	}
	if len(recs) > 0 {
		s.log.Debug("cubes saved", "count", len(recs))
	}
	return len(recs), nil
}

// put upserts recs in one transaction.
func (s *Store) put(ctx context.Context, recs []record) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cubes (key, x, y, z, stage, data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET stage = excluded.stage, data = excluded.data, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for i := range recs {
		r := &recs[i]
		key, err := coord.PackCube(r.x, r.y, r.z)
		if err != nil {
			return err
		}
		data := s.encodeBlocks(&r.blocks)
		if _, err := stmt.ExecContext(ctx, int64(key), r.x, r.y, r.z, int(r.stage), data, now); err != nil {
			return fmt.Errorf("save cube %d,%d,%d: %w", r.x, r.y, r.z, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SaveColumn writes the dirty cubes of col.
func (s *Store) SaveColumn(ctx context.Context, col *world.Column) (int, error) {
	return s.SaveCubes(ctx, col.Cubes())
}

// SaveProvider writes the dirty cubes of every column cached by p.
func (s *Store) SaveProvider(ctx context.Context, p *world.Provider) (int, error) {
	var cubes []*world.Cube
	for _, col := range p.Columns() {
		cubes = append(cubes, col.Cubes()...)
	}
	n, err := s.SaveCubes(ctx, cubes)
	if err != nil {
		return 0, err
	}
	s.log.Info("world saved", "columns", p.Len(), "cubes", n)
	return n, nil
}

// CountCubes returns the number of stored cubes.
func (s *Store) CountCubes(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cubes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cubes: %w", err)
	}
	return n, nil
}

// ColumnHeights returns the heights of the stored cubes of column (x, z) in
// ascending order.
func (s *Store) ColumnHeights(ctx context.Context, x, z int) ([]int, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `SELECT y FROM cubes WHERE x = ? AND z = ? ORDER BY y`, x, z)
	if err != nil {
		return nil, fmt.Errorf("query column %d,%d: %w", x, z, err)
	}
	defer rows.Close()

	var ys []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan column %d,%d: %w", x, z, err)
		}
		ys = append(ys, y)
	}
	return ys, rows.Err()
}

// Close releases the database and codecs. It is safe to call more than once.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		s.dec.Close()
		if cerr := s.enc.Close(); cerr != nil {
			err = cerr
		}
		if cerr := s.db.Close(); cerr != nil {
			err = cerr
		}
	})
	return err
}
