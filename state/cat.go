package state

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/rotblauer/catspots/catz"
	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/types/inference"
	"github.com/rotblauer/catspots/types/staypoint"
	"go.etcd.io/bbolt"
)

// ErrNoState is returned when a key has never been stored for the cat.
var ErrNoState = errors.New("no state")

// CatState is one cat's persisted staypoints, inferences and timetable.
// Writes are full replacements of the stored value.
type CatState struct {
	CatID conceptual.CatID
	DB    *bbolt.DB
	Flat  *catz.Flat
}

// OpenCatState opens (creating if needed) the cat's state db under root.
// A writable db is exclusively file-locked by bbolt, so a second writer
// (or reader) of the same cat blocks until the first closes.
func OpenCatState(root string, catID conceptual.CatID, readOnly bool) (*CatState, error) {
	if catID.IsEmpty() {
		return nil, errors.New("open cat state: empty cat id")
	}
	flatCat := catz.NewFlatWithRoot(params.DefaultCatDataDir(root, catID.String()))
	if readOnly && !flatCat.Exists() {
		return nil, fmt.Errorf("%w: cat %s", ErrNoState, catID)
	}
	if err := flatCat.MkdirAll(); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(filepath.Join(flatCat.Path(), params.CatStateDBName),
		0600, &bbolt.Options{
			ReadOnly: readOnly,
		})
	if err != nil {
		return nil, err
	}
	return &CatState{CatID: catID, DB: db, Flat: flatCat}, nil
}

func (s *CatState) Close() error {
	return s.DB.Close()
}

func (s *CatState) storeKV(key []byte, data []byte) error {
	if key == nil {
		return fmt.Errorf("storeKV: nil key")
	}
	if data == nil {
		return fmt.Errorf("storeKV: nil data")
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(params.CatStateBucket)
		if err != nil {
			return err
		}
		if err := bucket.Delete(key); err != nil {
			return err
		}
		return bucket.Put(key, data)
	})
}

func (s *CatState) readKV(key []byte) ([]byte, error) {
	var out []byte
	err := s.DB.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(params.CatStateBucket)
		if bucket == nil {
			return ErrNoState
		}
		// Gotcha! The value returned by Get is only valid in the scope of the transaction.
		got := bucket.Get(key)
		if got == nil {
			return ErrNoState
		}
		out = append([]byte(nil), got...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return out, nil
}

func (s *CatState) storeJSON(key []byte, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.storeKV(key, b); err != nil {
		return err
	}
	slog.Debug("Stored cat state", "cat", s.CatID, "key", string(key), "bytes", len(b))
	return nil
}

func (s *CatState) readJSON(key []byte, v any) error {
	b, err := s.readKV(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func (s *CatState) StoreStayPoints(sps []staypoint.StayPoint) error {
	if sps == nil {
		sps = []staypoint.StayPoint{}
	}
	return s.storeJSON(params.CatStateKey_StayPoints, sps)
}

// ReadStayPoints returns the stored staypoints, or none if never stored.
func (s *CatState) ReadStayPoints() ([]staypoint.StayPoint, error) {
	var sps []staypoint.StayPoint
	err := s.readJSON(params.CatStateKey_StayPoints, &sps)
	if errors.Is(err, ErrNoState) {
		return nil, nil
	}
	return sps, err
}

func (s *CatState) StoreInferences(infs []inference.Inference) error {
	if infs == nil {
		infs = []inference.Inference{}
	}
	return s.storeJSON(params.CatStateKey_Inferences, infs)
}

func (s *CatState) ReadInferences() ([]inference.Inference, error) {
	var infs []inference.Inference
	err := s.readJSON(params.CatStateKey_Inferences, &infs)
	return infs, err
}

func (s *CatState) StoreTimetable(entries []inference.TimetableEntry) error {
	if entries == nil {
		entries = []inference.TimetableEntry{}
	}
	return s.storeJSON(params.CatStateKey_Timetable, entries)
}

func (s *CatState) ReadTimetable() ([]inference.TimetableEntry, error) {
	var entries []inference.TimetableEntry
	err := s.readJSON(params.CatStateKey_Timetable, &entries)
	return entries, err
}

// StoreFingerprint records the input hash of the last completed run.
func (s *CatState) StoreFingerprint(fp uint64) error {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, fp)
	return s.storeKV(params.CatStateKey_Fingerprint, b)
}

// ReadFingerprint returns the last stored input hash, and false if none was stored.
func (s *CatState) ReadFingerprint() (uint64, bool, error) {
	b, err := s.readKV(params.CatStateKey_Fingerprint)
	if errors.Is(err, ErrNoState) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(b) != 8 {
		return 0, false, fmt.Errorf("read fingerprint: bad length %d", len(b))
	}
	return binary.BigEndian.Uint64(b), true, nil
}
