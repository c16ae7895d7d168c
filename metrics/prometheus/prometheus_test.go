package prometheus

import (
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCreateCounter(t *testing.T) {
	f := NewFactory("")
	c, err := f.CreateCounter("pgrow_test_total", "a test counter")
	require.NoError(t, err)
	c.Inc()
	c.Inc()
	require.Equal(t, 2.0, testutil.ToFloat64(c.(*Counter).pCounter))

	_, err = f.CreateCounter("pgrow_test_total", "a test counter")
	require.Error(t, err)

	// a separate factory has a separate registry
	_, err = NewFactory("").CreateCounter("pgrow_test_total", "a test counter")
	require.NoError(t, err)
}

func TestStartStop(t *testing.T) {
	addr := freeAddr(t)
	f := NewFactory(addr)
	c, err := f.CreateCounter("pgrow_served_total", "served")
	require.NoError(t, err)
	c.Inc()
	require.Error(t, f.Stop())
	require.NoError(t, f.Start())
	require.Error(t, f.Start())
	defer func() {
		require.NoError(t, f.Stop())
	}()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close() //nolint:errcheck
		b, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return false
		}
		body = string(b)
		return true
	}, 5*time.Second, 10*time.Millisecond)
	require.Contains(t, body, "pgrow_served_total 1")
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}
