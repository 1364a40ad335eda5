// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Session creation sources
const (
	CreatedByLogin  = "login"  // email + password
	CreatedByGoogle = "google" // Google sign-in
)

// End reasons
const (
	EndLogout   = "logout"
	EndExpired  = "expired"
	EndInactive = "inactive"
	EndRevoked  = "revoked"
)

// ErrNotLive is returned when a session is unknown, closed or expired.
var ErrNotLive = errors.New("session is not live")

// Session is the server-side half of an admin capability token. The token's
// jti names the session; a token is only honored while its session is live.
type Session struct {
	ID      string `bson:"_id"`
	AdminID int64  `bson:"admin_id"`

	// Timing
	LoginAt      time.Time  `bson:"login_at"`
	LastActiveAt time.Time  `bson:"last_active_at"`
	ExpiresAt    time.Time  `bson:"expires_at"`
	LogoutAt     *time.Time `bson:"logout_at,omitempty"`

	CreatedBy string `bson:"created_by,omitempty"`
	EndReason string `bson:"end_reason,omitempty"`

	// Context
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Computed on session close
	DurationSecs int64 `bson:"duration_secs,omitempty"`
}

// Live reports whether the session can still authorize requests at t.
func (s Session) Live(t time.Time) bool {
	return s.LogoutAt == nil && t.Before(s.ExpiresAt)
}

// Store manages admin sessions.
type Store struct {
	c *mongo.Collection
}

// New creates a new sessions Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sessions")}
}

// Create opens a session for an admin that expires after ttl.
func (s *Store) Create(ctx context.Context, adminID int64, ip, userAgent, createdBy string, ttl time.Duration) (Session, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	sess := Session{
		ID:           uuid.NewString(),
		AdminID:      adminID,
		LoginAt:      now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(ttl),
		CreatedBy:    createdBy,
		IP:           ip,
		UserAgent:    userAgent,
	}
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// GetByID retrieves a session by its ID regardless of state.
func (s *Store) GetByID(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	return sess, err
}

// Touch records activity on a live session and returns it. ErrNotLive is
// returned for unknown, closed or expired sessions.
func (s *Store) Touch(ctx context.Context, id string) (Session, error) {
	now := time.Now().UTC()
	var sess Session
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{
			"_id":        id,
			"logout_at":  nil,
			"expires_at": bson.M{"$gt": now},
		},
		bson.M{"$set": bson.M{"last_active_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&sess)
	if err == mongo.ErrNoDocuments {
		return Session{}, ErrNotLive
	}
	return sess, err
}

// closeSet ends sessions in one pipeline update so the duration is computed
// from each document's own login_at.
func closeSet(now time.Time, reason string) mongo.Pipeline {
	return mongo.Pipeline{{{Key: "$set", Value: bson.M{
		"logout_at":  now,
		"end_reason": reason,
		"duration_secs": bson.M{"$toLong": bson.M{"$divide": bson.A{
			bson.M{"$subtract": bson.A{now, "$login_at"}}, 1000,
		}}},
	}}}}
}

// Close ends one session. Closing an already closed session is a no-op.
func (s *Store) Close(ctx context.Context, id, reason string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "logout_at": nil},
		closeSet(time.Now().UTC(), reason),
	)
	return err
}

// CloseAllForAdmin ends every open session of an admin (password change,
// account disabled).
func (s *Store) CloseAllForAdmin(ctx context.Context, adminID int64, reason string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"admin_id": adminID, "logout_at": nil},
		closeSet(time.Now().UTC(), reason),
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// GetByAdmin retrieves session history for an admin, newest first.
func (s *Store) GetByAdmin(ctx context.Context, adminID int64, limit int64) ([]Session, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "login_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"admin_id": adminID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []Session
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CloseExpired closes open sessions whose expiry has passed.
func (s *Store) CloseExpired(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"logout_at": nil, "expires_at": bson.M{"$lte": now}},
		closeSet(now, EndExpired),
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CloseInactive closes open sessions without activity for longer than threshold.
func (s *Store) CloseInactive(ctx context.Context, threshold time.Duration) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"logout_at": nil, "last_active_at": bson.M{"$lt": now.Add(-threshold)}},
		closeSet(now, EndInactive),
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountOpen counts sessions that are neither closed nor expired.
func (s *Store) CountOpen(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"logout_at":  nil,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	})
}
