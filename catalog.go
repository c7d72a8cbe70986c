package raster

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one cataloged image file.
type Entry struct {
	Path   string
	Size   int64
	SHA1   string
	Format string
	Width  int
	Height int
}

// Catalog is a SQLite database of scanned image files and their thumbnails,
// deduplicated by content hash.
type Catalog struct {
	db *sql.DB
}

func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, format TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, thumb BLOB)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS file (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, size INTEGER NOT NULL, image_id INTEGER NOT NULL, FOREIGN KEY(image_id) REFERENCES image(id))"); err != nil {
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// addImage stores the decoded properties and thumbnail for a content hash,
// reusing the existing row if the hash has been seen before.
func (c *Catalog) addImage(sha, format string, width, height int, thumb []byte) (int64, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM image WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO image (sha1, format, width, height, thumb) VALUES (?, ?, ?, ?, ?)", sha, format, width, height, thumb)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Put records a scanned file with an optional compressed thumbnail.
func (c *Catalog) Put(e Entry, thumb []byte) error {
	id, err := c.addImage(e.SHA1, e.Format, e.Width, e.Height, thumb)
	if err != nil {
		return err
	}
	if _, err := c.db.Exec("INSERT OR REPLACE INTO file (path, size, image_id) VALUES (?, ?, ?)", e.Path, e.Size, id); err != nil {
		return err
	}
	return nil
}

// Entry returns the cataloged entry for path, or nil if the path has not
// been scanned.
func (c *Catalog) Entry(path string) (*Entry, error) {
	e := Entry{Path: path}
	switch err := c.db.QueryRow("SELECT f.size, i.sha1, i.format, i.width, i.height FROM file AS f JOIN image AS i ON f.image_id = i.id WHERE f.path = ?", path).Scan(&e.Size, &e.SHA1, &e.Format, &e.Width, &e.Height); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &e, nil
	default:
		return nil, err
	}
}

// Thumbnail returns the stored thumbnail for path as uncompressed bitmap
// bytes, or nil if the path is not cataloged or has no thumbnail.
func (c *Catalog) Thumbnail(path string) ([]byte, error) {
	var thumb []byte
	switch err := c.db.QueryRow("SELECT i.thumb FROM file AS f JOIN image AS i ON f.image_id = i.id WHERE f.path = ?", path).Scan(&thumb); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		if thumb == nil {
			return nil, nil
		}
		return decompress(thumb)
	default:
		return nil, err
	}
}

// Each calls fn for every cataloged file in path order.
func (c *Catalog) Each(fn func(Entry) error) error {
	rows, err := c.db.Query("SELECT f.path, f.size, i.sha1, i.format, i.width, i.height FROM file AS f JOIN image AS i ON f.image_id = i.id ORDER BY f.path")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Size, &e.SHA1, &e.Format, &e.Width, &e.Height); err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}

	return rows.Err()
}
