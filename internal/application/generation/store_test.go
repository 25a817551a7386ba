package generation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	app "github.com/panmaat/backend/internal/application/generation"
	"github.com/panmaat/backend/internal/domain/generation"
	"github.com/panmaat/backend/internal/domain/recipe"
)

// StoreTestSuite exercises the in-memory session store and its
// per-session latch.
type StoreTestSuite struct {
	suite.Suite
}

func (suite *StoreTestSuite) newSession() *generation.Session {
	session, err := generation.NewSession(uuid.New(), "ei, spinazie", 2, recipe.CategoryDinner, 3)
	suite.Require().NoError(err)
	return session
}

func (suite *StoreTestSuite) TestAcquire() {
	suite.Run("ReturnsStoredSession", func() {
		// Arrange
		store := app.NewStore(time.Hour)
		session := suite.newSession()
		store.Put(session)

		// Act
		got, release, err := store.Acquire(session.ID())

		// Assert
		suite.Require().NoError(err)
		suite.Same(session, got)
		release()
	})

	suite.Run("UnknownSession_NotFound", func() {
		// Arrange
		store := app.NewStore(time.Hour)

		// Act
		_, _, err := store.Acquire(uuid.New())

		// Assert
		suite.ErrorIs(err, generation.ErrSessionNotFound)
	})

	suite.Run("HeldSession_Busy", func() {
		// Arrange
		store := app.NewStore(time.Hour)
		session := suite.newSession()
		store.Put(session)
		_, release, err := store.Acquire(session.ID())
		suite.Require().NoError(err)

		// Act
		_, _, busyErr := store.Acquire(session.ID())

		// Assert
		suite.ErrorIs(busyErr, app.ErrBusy)

		// Release opens the latch again.
		release()
		_, release, err = store.Acquire(session.ID())
		suite.NoError(err)
		release()
	})
}

func (suite *StoreTestSuite) TestRemove() {
	// Arrange
	store := app.NewStore(time.Hour)
	session := suite.newSession()
	store.Put(session)
	suite.Require().Equal(1, store.Len())

	// Act
	store.Remove(session.ID())

	// Assert
	suite.Zero(store.Len())
	_, _, err := store.Acquire(session.ID())
	suite.ErrorIs(err, generation.ErrSessionNotFound)
}

func (suite *StoreTestSuite) TestSweep() {
	suite.Run("DropsClosedSessions", func() {
		// Arrange
		store := app.NewStore(time.Hour)
		open := suite.newSession()
		closed := suite.newSession()
		suite.Require().NoError(closed.Abandon())
		store.Put(open)
		store.Put(closed)

		// Act
		removed := store.Sweep()

		// Assert
		suite.Equal(1, removed)
		suite.Equal(1, store.Len())
		_, release, err := store.Acquire(open.ID())
		suite.Require().NoError(err)
		release()
	})

	suite.Run("DropsIdleSessions", func() {
		// Arrange
		store := app.NewStore(time.Millisecond)
		store.Put(suite.newSession())
		time.Sleep(5 * time.Millisecond)

		// Act
		removed := store.Sweep()

		// Assert
		suite.Equal(1, removed)
		suite.Zero(store.Len())
	})

	suite.Run("SkipsBusySessions", func() {
		// Arrange
		store := app.NewStore(time.Millisecond)
		session := suite.newSession()
		suite.Require().NoError(session.Abandon())
		store.Put(session)
		_, release, err := store.Acquire(session.ID())
		suite.Require().NoError(err)
		time.Sleep(5 * time.Millisecond)

		// Act
		removed := store.Sweep()

		// Assert
		suite.Zero(removed)
		suite.Equal(1, store.Len())

		// Once released, the closed session is fair game.
		release()
		suite.Equal(1, store.Sweep())
	})
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
