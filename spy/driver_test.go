package spy

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaldera-labs/sqlspy-go/dialect"
	"github.com/kaldera-labs/sqlspy-go/logspy"
)

// fakeDriver implements the underlying-driver contract for tests.
type fakeDriver struct {
	name       string
	accept     string
	conn       driver.Conn
	connectErr error
	returnNil  bool
	gotURL     string
	major      int
	minor      int
	compliant  bool
	logger     *zerolog.Logger
}

func (d *fakeDriver) Name() string { return d.name }

func (d *fakeDriver) AcceptsURL(url string) (bool, error) {
	return strings.HasPrefix(url, d.accept), nil
}

func (d *fakeDriver) Connect(_ context.Context, url string, _ map[string]string) (driver.Conn, error) {
	d.gotURL = url
	if d.connectErr != nil {
		return nil, d.connectErr
	}
	if d.returnNil {
		return nil, nil
	}
	return d.conn, nil
}

func (d *fakeDriver) PropertyInfo(string, map[string]string) ([]PropertyInfo, error) {
	return []PropertyInfo{{Name: "user", Description: "login user"}}, nil
}

func (d *fakeDriver) MajorVersion() int { return d.major }
func (d *fakeDriver) MinorVersion() int { return d.minor }
func (d *fakeDriver) Compliant() bool   { return d.compliant }

func (d *fakeDriver) ParentLogger() (*zerolog.Logger, error) {
	if d.logger == nil {
		return nil, errors.New("no logger")
	}
	return d.logger, nil
}

// erroringDriver always fails to answer AcceptsURL.
type erroringDriver struct{ fakeDriver }

func (d *erroringDriver) AcceptsURL(string) (bool, error) {
	return false, errors.New("broken driver")
}

// fakeConn is a minimal driver.Conn.
type fakeConn struct{ closed bool }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c *fakeConn) Close() error                        { c.closed = true; return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return nil, errors.New("not implemented") }

// testSpy builds a facade with auto-loading off and the given drivers
// registered, against a clean registry.
func testSpy(t *testing.T, drivers []Driver, opts ...Option) *Spy {
	t.Helper()
	resetDrivers()
	t.Cleanup(resetDrivers)

	opts = append([]Option{
		WithProperties(MapSource{"sqlspy.auto.load.popular.drivers": "false"}),
		WithDrivers(drivers...),
	}, opts...)
	s, err := Register(opts...)
	require.NoError(t, err)
	return s
}

func gateOpen() Gate   { return logspy.GateFunc(func() bool { return true }) }
func gateClosed() Gate { return logspy.GateFunc(func() bool { return false }) }

func TestSpy_AcceptsURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "given url without marker, then no match",
			url:  "fake://db",
			want: false,
		},
		{
			name: "given marker and accepting driver, then match",
			url:  "sqlspy://fake://db",
			want: true,
		},
		{
			name: "given marker but no accepting driver, then no match",
			url:  "sqlspy://other://db",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDriver{name: "fake", accept: "fake://", conn: &fakeConn{}}
			s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

			got, err := s.AcceptsURL(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("given repeated calls, then result is stable and last driver recorded", func(t *testing.T) {
		fake := &fakeDriver{name: "fake", accept: "fake://", conn: &fakeConn{}}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		first, err := s.AcceptsURL("sqlspy://fake://db")
		require.NoError(t, err)
		second, err := s.AcceptsURL("sqlspy://fake://db")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		last, at, ok := s.LastDriver()
		require.True(t, ok)
		assert.Same(t, fake, last)
		assert.False(t, at.IsZero())
	})

	t.Run("given broken driver in scan, then later drivers still match", func(t *testing.T) {
		broken := &erroringDriver{fakeDriver{name: "broken"}}
		fake := &fakeDriver{name: "fake", accept: "fake://", conn: &fakeConn{}}
		s := testSpy(t, []Driver{broken, fake}, WithGate(gateClosed()))

		got, err := s.AcceptsURL("sqlspy://fake://db")

		require.NoError(t, err)
		assert.True(t, got)
	})
}

func TestSpy_Connect(t *testing.T) {
	t.Run("given url without marker, then no match and no error", func(t *testing.T) {
		fake := &fakeDriver{name: "fake", accept: "fake://", conn: &fakeConn{}}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		conn, err := s.Connect(context.Background(), "fake://db", nil)

		require.NoError(t, err)
		assert.Nil(t, conn)
	})

	t.Run("given matching url with gate closed, then raw connection and stripped url", func(t *testing.T) {
		raw := &fakeConn{}
		fake := &fakeDriver{name: "fake", accept: "fake://", conn: raw}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		conn, err := s.Connect(context.Background(), "sqlspy://fake://db", nil)

		require.NoError(t, err)
		assert.Same(t, raw, conn)
		assert.Equal(t, "fake://db", fake.gotURL)
	})

	t.Run("given gate open, then wrapped connection with default dialect for unmapped driver", func(t *testing.T) {
		raw := &fakeConn{}
		wrapped := &fakeConn{}
		fake := &fakeDriver{name: "fake", accept: "fake://", conn: raw}

		var gotConn driver.Conn
		var gotDialect dialect.Dialect
		s := testSpy(t, []Driver{fake},
			WithGate(gateOpen()),
			WithConnWrapper(func(c driver.Conn, d dialect.Dialect) driver.Conn {
				gotConn, gotDialect = c, d
				return wrapped
			}),
		)

		conn, err := s.Connect(context.Background(), "sqlspy://fake://db", nil)

		require.NoError(t, err)
		assert.Same(t, wrapped, conn)
		assert.Same(t, raw, gotConn)
		assert.Equal(t, dialect.Default(), gotDialect)
	})

	t.Run("given mapped driver identity, then wrapper sees its family dialect", func(t *testing.T) {
		fake := &fakeDriver{name: "mysql", accept: "mysql://", conn: &fakeConn{}}

		var gotDialect dialect.Dialect
		s := testSpy(t, []Driver{fake},
			WithGate(gateOpen()),
			WithConnWrapper(func(c driver.Conn, d dialect.Dialect) driver.Conn {
				gotDialect = d
				return c
			}),
		)

		_, err := s.Connect(context.Background(), "sqlspy://mysql://db", nil)

		require.NoError(t, err)
		assert.Equal(t, dialect.NewRegistry().ResolveDriver("mysql"), gotDialect)
	})

	t.Run("given driver returning nil connection, then contract violation error", func(t *testing.T) {
		fake := &fakeDriver{name: "fake", accept: "fake://", returnNil: true}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		conn, err := s.Connect(context.Background(), "sqlspy://fake://db", nil)

		require.Error(t, err)
		assert.Nil(t, conn)
		assert.ErrorIs(t, err, ErrInvalidURL)
		assert.Contains(t, err.Error(), "fake://db")
	})

	t.Run("given driver connect error, then error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		fake := &fakeDriver{name: "fake", accept: "fake://", connectErr: boom}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		_, err := s.Connect(context.Background(), "sqlspy://fake://db", nil)

		assert.ErrorIs(t, err, boom)
	})
}

func TestSpy_PropertyInfo(t *testing.T) {
	t.Run("given no matching driver, then empty sequence and no error", func(t *testing.T) {
		fake := &fakeDriver{name: "fake", accept: "fake://"}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		props, err := s.PropertyInfo("fake://db", nil)

		require.NoError(t, err)
		assert.NotNil(t, props)
		assert.Empty(t, props)
	})

	t.Run("given matching driver, then delegates with stripped url", func(t *testing.T) {
		fake := &fakeDriver{name: "fake", accept: "fake://"}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		props, err := s.PropertyInfo("sqlspy://fake://db", nil)

		require.NoError(t, err)
		require.Len(t, props, 1)
		assert.Equal(t, "user", props[0].Name)
	})
}

func TestSpy_VersionQueries(t *testing.T) {
	t.Run("given no driver resolved yet, then documented defaults", func(t *testing.T) {
		s := testSpy(t, nil, WithGate(gateClosed()))

		assert.Equal(t, 1, s.MajorVersion())
		assert.Equal(t, 0, s.MinorVersion())
		assert.False(t, s.Compliant())
		_, _, ok := s.LastDriver()
		assert.False(t, ok)
	})

	t.Run("given driver resolved, then answers from last requested driver", func(t *testing.T) {
		fake := &fakeDriver{name: "fake", accept: "fake://", conn: &fakeConn{}, major: 8, minor: 3, compliant: true}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		_, err := s.AcceptsURL("sqlspy://fake://db")
		require.NoError(t, err)

		assert.Equal(t, 8, s.MajorVersion())
		assert.Equal(t, 3, s.MinorVersion())
		assert.True(t, s.Compliant())
	})
}

func TestSpy_ParentLogger(t *testing.T) {
	t.Run("given no driver resolved yet, then not supported", func(t *testing.T) {
		s := testSpy(t, nil, WithGate(gateClosed()))

		_, err := s.ParentLogger()

		assert.ErrorIs(t, err, ErrNotSupported)
	})

	t.Run("given resolved driver exposing a logger, then delegates", func(t *testing.T) {
		logger := zerolog.Nop()
		fake := &fakeDriver{name: "fake", accept: "fake://", conn: &fakeConn{}, logger: &logger}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		_, err := s.AcceptsURL("sqlspy://fake://db")
		require.NoError(t, err)

		got, err := s.ParentLogger()
		require.NoError(t, err)
		assert.Same(t, &logger, got)
	})
}

func TestSpy_Register(t *testing.T) {
	t.Run("given successful registration, then facade is enumerable", func(t *testing.T) {
		s := testSpy(t, nil)

		found := false
		for _, d := range Drivers() {
			if d == Driver(s) {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("given facade already registered, then re-registering it fails", func(t *testing.T) {
		s := testSpy(t, nil)

		err := RegisterDriver(s)

		assert.Error(t, err)
	})
}

func TestSpy_OpenBridge(t *testing.T) {
	t.Run("given unowned url, then Open reports ErrNoDriver", func(t *testing.T) {
		s := testSpy(t, nil, WithGate(gateClosed()))

		_, err := s.Open("sqlspy://nobody://db")

		assert.ErrorIs(t, err, ErrNoDriver)
	})

	t.Run("given owned url, then Open returns the connection", func(t *testing.T) {
		raw := &fakeConn{}
		fake := &fakeDriver{name: "fake", accept: "fake://", conn: raw}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		conn, err := s.Open("sqlspy://fake://db")

		require.NoError(t, err)
		assert.Same(t, raw, conn)
	})
}

func TestConnector(t *testing.T) {
	t.Run("given owned url, then pooled connect succeeds", func(t *testing.T) {
		raw := &fakeConn{}
		fake := &fakeDriver{name: "fake", accept: "fake://", conn: raw}
		s := testSpy(t, []Driver{fake}, WithGate(gateClosed()))

		c := NewConnector(s, "sqlspy://fake://db", nil)
		conn, err := c.Connect(context.Background())

		require.NoError(t, err)
		assert.Same(t, raw, conn)
		assert.Equal(t, driver.Driver(s), c.Driver())
	})

	t.Run("given unowned url, then pooled connect reports ErrNoDriver", func(t *testing.T) {
		s := testSpy(t, nil, WithGate(gateClosed()))

		c := NewConnector(s, "sqlspy://nobody://db", nil)
		_, err := c.Connect(context.Background())

		assert.ErrorIs(t, err, ErrNoDriver)
	})
}
