package state

import (
	"encoding/json"
	"fmt"

	dbm "github.com/cosmos/cosmos-db"
)

// Store persists State into a cosmos-db key/value database.
type Store struct {
	db dbm.DB
}

func NewStore(db dbm.DB) *Store {
	return &Store{db: db}
}

// OpenStore opens (or creates) the application database under dir.
func OpenStore(backend, dir string) (*Store, error) {
	db, err := dbm.NewDB("application", dbm.BackendType(backend), dir)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", backend, err)
	}
	return NewStore(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the last committed state. An empty database yields NewState().
func (s *Store) Load() (*State, error) {
	st := NewState()

	if b, err := s.db.Get(prefixed(MetaPrefix, metaHeight)); err != nil {
		return nil, fmt.Errorf("read height: %w", err)
	} else if b != nil {
		h, ok := parseU64Value(b)
		if !ok {
			return nil, fmt.Errorf("decode height: bad length %d", len(b))
		}
		st.Height = int64(h)
	}
	if b, err := s.db.Get(prefixed(MetaPrefix, metaNextRandomnessID)); err != nil {
		return nil, fmt.Errorf("read next randomness id: %w", err)
	} else if b != nil {
		id, ok := parseU64Value(b)
		if !ok {
			return nil, fmt.Errorf("decode next randomness id: bad length %d", len(b))
		}
		st.NextRandomnessID = id
	}
	if err := s.getJSON(metaParams, &st.Params); err != nil {
		return nil, err
	}
	var tr Treasury
	if ok, err := s.getJSONOk(metaTreasury, &tr); err != nil {
		return nil, err
	} else if ok {
		st.Treasury = &tr
	}

	if err := s.iterate(AccountPrefix, func(k, v []byte) error {
		bal, ok := parseU64Value(v)
		if !ok {
			return fmt.Errorf("account %q: bad balance length %d", k, len(v))
		}
		st.Accounts[string(k)] = bal
		return nil
	}); err != nil {
		return nil, err
	}
	if err := s.iterate(AccountKeyPrefix, func(k, v []byte) error {
		st.AccountKeys[string(k)] = append([]byte(nil), v...)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := s.iterate(NoncePrefix, func(k, v []byte) error {
		n, ok := parseU64Value(v)
		if !ok {
			return fmt.Errorf("nonce %q: bad length %d", k, len(v))
		}
		st.NonceMax[string(k)] = n
		return nil
	}); err != nil {
		return nil, err
	}
	if err := s.iterate(OraclePrefix, func(k, v []byte) error {
		var o Oracle
		if err := json.Unmarshal(v, &o); err != nil {
			return fmt.Errorf("decode oracle %q: %w", k, err)
		}
		st.Oracles[o.ID] = &o
		return nil
	}); err != nil {
		return nil, err
	}
	if err := s.iterate(RandomnessPrefix, func(k, v []byte) error {
		var r RandomnessAccount
		if err := json.Unmarshal(v, &r); err != nil {
			return fmt.Errorf("decode randomness %x: %w", k, err)
		}
		st.Randomness[r.ID] = &r
		return nil
	}); err != nil {
		return nil, err
	}
	if err := s.iterate(BetPrefix, func(k, v []byte) error {
		var b BetEntry
		if err := json.Unmarshal(v, &b); err != nil {
			return fmt.Errorf("decode bet %q: %w", k, err)
		}
		st.Bets[b.Key()] = &b
		return nil
	}); err != nil {
		return nil, err
	}
	return st, nil
}

// Save writes st in a single synced batch, dropping keys that no longer
// exist in st.
func (s *Store) Save(st *State) error {
	batch := s.db.NewBatch()
	defer func() { _ = batch.Close() }()

	set := func(key, value []byte) error {
		if err := batch.Set(key, value); err != nil {
			return fmt.Errorf("batch set %x: %w", key, err)
		}
		return nil
	}
	setJSON := func(key []byte, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %x: %w", key, err)
		}
		return set(key, b)
	}

	if err := set(prefixed(MetaPrefix, metaHeight), u64Value(uint64(st.Height))); err != nil {
		return err
	}
	if err := set(prefixed(MetaPrefix, metaNextRandomnessID), u64Value(st.NextRandomnessID)); err != nil {
		return err
	}
	if err := setJSON(prefixed(MetaPrefix, metaParams), st.Params); err != nil {
		return err
	}
	if st.Treasury != nil {
		if err := setJSON(prefixed(MetaPrefix, metaTreasury), st.Treasury); err != nil {
			return err
		}
	}

	live := map[string]struct{}{}
	mark := func(key []byte) { live[string(key)] = struct{}{} }

	for addr, bal := range st.Accounts {
		k := prefixed(AccountPrefix, []byte(addr))
		mark(k)
		if err := set(k, u64Value(bal)); err != nil {
			return err
		}
	}
	for addr, pub := range st.AccountKeys {
		k := prefixed(AccountKeyPrefix, []byte(addr))
		mark(k)
		if err := set(k, pub); err != nil {
			return err
		}
	}
	for signer, n := range st.NonceMax {
		k := prefixed(NoncePrefix, []byte(signer))
		mark(k)
		if err := set(k, u64Value(n)); err != nil {
			return err
		}
	}
	for id, o := range st.Oracles {
		k := prefixed(OraclePrefix, []byte(id))
		mark(k)
		if err := setJSON(k, o); err != nil {
			return err
		}
	}
	for id, r := range st.Randomness {
		k := prefixed(RandomnessPrefix, u64Key(id))
		mark(k)
		if err := setJSON(k, r); err != nil {
			return err
		}
	}
	for key, b := range st.Bets {
		k := prefixed(BetPrefix, []byte(key))
		mark(k)
		if err := setJSON(k, b); err != nil {
			return err
		}
	}

	for _, prefix := range [][]byte{AccountPrefix, AccountKeyPrefix, NoncePrefix, OraclePrefix, RandomnessPrefix, BetPrefix} {
		var stale [][]byte
		if err := s.iterate(prefix, func(k, _ []byte) error {
			full := prefixed(prefix, k)
			if _, ok := live[string(full)]; !ok {
				stale = append(stale, full)
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := batch.Delete(k); err != nil {
				return fmt.Errorf("batch delete %x: %w", k, err)
			}
		}
	}

	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("write state batch: %w", err)
	}
	return nil
}

func (s *Store) getJSON(key []byte, v any) error {
	_, err := s.getJSONOk(key, v)
	return err
}

func (s *Store) getJSONOk(key []byte, v any) (bool, error) {
	b, err := s.db.Get(prefixed(MetaPrefix, key))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if b == nil {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// iterate walks every key under prefix; fn receives keys with the prefix
// stripped.
func (s *Store) iterate(prefix []byte, fn func(k, v []byte) error) error {
	it, err := dbm.NewPrefixDB(s.db, prefix).Iterator(nil, nil)
	if err != nil {
		return fmt.Errorf("iterate %x: %w", prefix, err)
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		if err := fn(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}
