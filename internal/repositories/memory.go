package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type memoryState struct {
	users  map[string]models.User
	places map[string]models.Place
	posts  map[string]models.Post
	// insertion order
	userIDs  []string
	placeIDs []string
	postIDs  []string
}

func newMemoryState() *memoryState {
	return &memoryState{
		users:  map[string]models.User{},
		places: map[string]models.Place{},
		posts:  map[string]models.Post{},
	}
}

func (s *memoryState) clone() *memoryState {
	c := newMemoryState()
	for id, u := range s.users {
		c.users[id] = copyUser(u)
	}
	for id, p := range s.places {
		c.places[id] = p
	}
	for id, p := range s.posts {
		c.posts[id] = p
	}
	c.userIDs = append([]string(nil), s.userIDs...)
	c.placeIDs = append([]string(nil), s.placeIDs...)
	c.postIDs = append([]string(nil), s.postIDs...)
	return c
}

func copyUser(u models.User) models.User {
	u.Places = append(pq.StringArray{}, u.Places...)
	u.Posts = append(pq.StringArray{}, u.Posts...)
	return u
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type memTxKey struct{}

// MemoryDB keeps users, places and posts in process memory. It implements
// every repository interface and Transactor. A transaction holds the write
// lock for its whole duration and restores a snapshot when it fails, so
// transactions are serializable and readers never see a partial unit.
type MemoryDB struct {
	mu    sync.RWMutex
	state *memoryState
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{state: newMemoryState()}
}

func (m *MemoryDB) inTx(ctx context.Context) bool {
	db, _ := ctx.Value(memTxKey{}).(*MemoryDB)
	return db == m
}

func (m *MemoryDB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.inTx(ctx) {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	defer func() {
		if p := recover(); p != nil {
			m.state = snapshot
			panic(p)
		}
	}()
	if err := fn(context.WithValue(ctx, memTxKey{}, m)); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *MemoryDB) read(ctx context.Context, fn func(s *memoryState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.inTx(ctx) {
		m.mu.RLock()
		defer m.mu.RUnlock()
	}
	return fn(m.state)
}

func (m *MemoryDB) write(ctx context.Context, fn func(s *memoryState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.inTx(ctx) {
		m.mu.Lock()
		defer m.mu.Unlock()
	}
	return fn(m.state)
}

func (m *MemoryDB) CreateUser(ctx context.Context, user *models.User) error {
	return m.write(ctx, func(s *memoryState) error {
		for _, u := range s.users {
			if u.Email == user.Email {
				return ErrDuplicate
			}
		}
		if user.ID == "" {
			user.ID = uuid.NewString()
		}
		if _, ok := s.users[user.ID]; ok {
			return ErrDuplicate
		}
		if user.Places == nil {
			user.Places = pq.StringArray{}
		}
		if user.Posts == nil {
			user.Posts = pq.StringArray{}
		}
		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now
		s.users[user.ID] = copyUser(*user)
		s.userIDs = append(s.userIDs, user.ID)
		return nil
	})
}

func (m *MemoryDB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return m.findUser(ctx, func(u models.User) bool { return u.ID == id })
}

func (m *MemoryDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(ctx, func(u models.User) bool { return u.Email == email })
}

func (m *MemoryDB) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	return m.findUser(ctx, func(u models.User) bool { return firebaseUID != "" && u.FirebaseUID == firebaseUID })
}

func (m *MemoryDB) findUser(ctx context.Context, match func(models.User) bool) (*models.User, error) {
	var found *models.User
	err := m.read(ctx, func(s *memoryState) error {
		for _, id := range s.userIDs {
			if u := s.users[id]; match(u) {
				c := copyUser(u)
				found = &c
				return nil
			}
		}
		return ErrNotFound
	})
	return found, err
}

func (m *MemoryDB) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := m.read(ctx, func(s *memoryState) error {
		for _, id := range s.userIDs {
			u := copyUser(s.users[id])
			u.Password = ""
			users = append(users, u)
		}
		return nil
	})
	return users, err
}

func (m *MemoryDB) UpdateUser(ctx context.Context, user *models.User) error {
	return m.write(ctx, func(s *memoryState) error {
		existing, ok := s.users[user.ID]
		if !ok {
			return ErrNotFound
		}
		for id, u := range s.users {
			if id != user.ID && u.Email == user.Email {
				return ErrDuplicate
			}
		}
		existing.Name = user.Name
		existing.Email = user.Email
		existing.Image = user.Image
		existing.FirebaseUID = user.FirebaseUID
		existing.UpdatedAt = time.Now()
		user.UpdatedAt = existing.UpdatedAt
		s.users[user.ID] = existing
		return nil
	})
}

func (m *MemoryDB) AddPlace(ctx context.Context, userID, placeID string) error {
	return m.updateUser(ctx, userID, func(u *models.User) {
		if !u.OwnsPlace(placeID) {
			u.Places = append(u.Places, placeID)
		}
	})
}

func (m *MemoryDB) RemovePlace(ctx context.Context, userID, placeID string) error {
	return m.updateUser(ctx, userID, func(u *models.User) {
		u.Places = removeID(u.Places, placeID)
	})
}

func (m *MemoryDB) AddPost(ctx context.Context, userID, postID string) error {
	return m.updateUser(ctx, userID, func(u *models.User) {
		if !u.OwnsPost(postID) {
			u.Posts = append(u.Posts, postID)
		}
	})
}

func (m *MemoryDB) RemovePost(ctx context.Context, userID, postID string) error {
	return m.updateUser(ctx, userID, func(u *models.User) {
		u.Posts = removeID(u.Posts, postID)
	})
}

func (m *MemoryDB) updateUser(ctx context.Context, userID string, fn func(u *models.User)) error {
	return m.write(ctx, func(s *memoryState) error {
		u, ok := s.users[userID]
		if !ok {
			return ErrNotFound
		}
		u = copyUser(u)
		fn(&u)
		s.users[userID] = u
		return nil
	})
}

func (m *MemoryDB) CreatePlace(ctx context.Context, place *models.Place) error {
	return m.write(ctx, func(s *memoryState) error {
		if place.ID == "" {
			place.ID = uuid.NewString()
		}
		if _, ok := s.places[place.ID]; ok {
			return ErrDuplicate
		}
		place.CreatedAt = time.Now()
		place.UpdatedAt = place.CreatedAt
		s.places[place.ID] = *place
		s.placeIDs = append(s.placeIDs, place.ID)
		return nil
	})
}

func (m *MemoryDB) GetPlaceByID(ctx context.Context, id string) (*models.Place, error) {
	var place *models.Place
	err := m.read(ctx, func(s *memoryState) error {
		p, ok := s.places[id]
		if !ok {
			return ErrNotFound
		}
		place = &p
		return nil
	})
	return place, err
}

func (m *MemoryDB) GetPlacesByCreator(ctx context.Context, creator string) ([]models.Place, error) {
	places := []models.Place{}
	err := m.read(ctx, func(s *memoryState) error {
		for _, id := range s.placeIDs {
			if p := s.places[id]; p.Creator == creator {
				places = append(places, p)
			}
		}
		return nil
	})
	return places, err
}

func (m *MemoryDB) UpdatePlace(ctx context.Context, place *models.Place) error {
	return m.write(ctx, func(s *memoryState) error {
		existing, ok := s.places[place.ID]
		if !ok {
			return ErrNotFound
		}
		existing.Title = place.Title
		existing.Description = place.Description
		existing.UpdatedAt = time.Now()
		place.UpdatedAt = existing.UpdatedAt
		s.places[place.ID] = existing
		return nil
	})
}

func (m *MemoryDB) DeletePlace(ctx context.Context, id string) error {
	return m.write(ctx, func(s *memoryState) error {
		if _, ok := s.places[id]; !ok {
			return ErrNotFound
		}
		delete(s.places, id)
		s.placeIDs = removeID(s.placeIDs, id)
		return nil
	})
}

func (m *MemoryDB) CreatePost(ctx context.Context, post *models.Post) error {
	return m.write(ctx, func(s *memoryState) error {
		if post.ID == "" {
			post.ID = uuid.NewString()
		}
		if _, ok := s.posts[post.ID]; ok {
			return ErrDuplicate
		}
		if post.Date.IsZero() {
			post.Date = time.Now()
		}
		post.UpdatedAt = post.Date
		s.posts[post.ID] = *post
		s.postIDs = append(s.postIDs, post.ID)
		return nil
	})
}

func (m *MemoryDB) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post *models.Post
	err := m.read(ctx, func(s *memoryState) error {
		p, ok := s.posts[id]
		if !ok {
			return ErrNotFound
		}
		post = &p
		return nil
	})
	return post, err
}

func (m *MemoryDB) GetPostsByCreator(ctx context.Context, creator string) ([]models.Post, error) {
	posts := []models.Post{}
	err := m.read(ctx, func(s *memoryState) error {
		for _, id := range s.postIDs {
			if p := s.posts[id]; p.Creator == creator {
				posts = append(posts, p)
			}
		}
		return nil
	})
	return posts, err
}

func (m *MemoryDB) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := m.read(ctx, func(s *memoryState) error {
		for i := len(s.postIDs) - 1; i >= 0; i-- {
			posts = append(posts, s.posts[s.postIDs[i]])
		}
		return nil
	})
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Date.After(posts[j].Date) })
	return posts, err
}

func (m *MemoryDB) UpdatePost(ctx context.Context, post *models.Post) error {
	return m.write(ctx, func(s *memoryState) error {
		existing, ok := s.posts[post.ID]
		if !ok {
			return ErrNotFound
		}
		existing.Title = post.Title
		existing.Body = post.Body
		existing.UpdatedAt = time.Now()
		post.UpdatedAt = existing.UpdatedAt
		s.posts[post.ID] = existing
		return nil
	})
}

func (m *MemoryDB) DeletePost(ctx context.Context, id string) error {
	return m.write(ctx, func(s *memoryState) error {
		if _, ok := s.posts[id]; !ok {
			return ErrNotFound
		}
		delete(s.posts, id)
		s.postIDs = removeID(s.postIDs, id)
		return nil
	})
}
