package connection

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/rs/dnscache"
	"golang.org/x/sync/semaphore"
)

// a single HTTP client shared by all S3 clients: DNS lookups are cached and
// the number of parallel lookups and connections per host are bounded
var sharedHTTPClient = newHTTPClient()

func newHTTPClient() aws.HTTPClient {
	dnsLookupMaxParallel := readEnvVarToInt("ENVI_AWS_DNS_LOOKUP_MAX_PARALLEL", 25)
	// 0 disables refresh, -1 disables the cache
	dnsCacheRefreshIntervalSecs := readEnvVarToInt("ENVI_AWS_DNS_CACHE_REFRESH_INTERVAL_SECS", 300)
	// 0 removes the limit
	maxConnsPerHost := readEnvVarToInt("ENVI_AWS_HTTP_TRANSPORT_MAX_CONNS_PER_HOST", 5000)

	client := awshttp.NewBuildableClient()
	if maxConnsPerHost > 0 {
		client = client.WithTransportOptions(func(tr *http.Transport) {
			tr.MaxConnsPerHost = maxConnsPerHost
		})
	}
	if dnsCacheRefreshIntervalSecs < 0 {
		return client
	}

	resolver := &dnscache.Resolver{}
	if dnsCacheRefreshIntervalSecs > 0 {
		go func() {
			t := time.NewTicker(time.Duration(dnsCacheRefreshIntervalSecs) * time.Second)
			defer t.Stop()
			for range t.C {
				resolver.Refresh(true)
			}
		}()
	}

	sem := semaphore.NewWeighted(int64(dnsLookupMaxParallel))
	dialer := client.GetDialer()

	return client.WithTransportOptions(func(tr *http.Transport) {
		tr.DialContext = func(ctx context.Context, network string, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}

			if err := sem.Acquire(ctx, 1); err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			sem.Release(1)
			if err != nil {
				return nil, err
			}

			// try each address until a connection succeeds
			var conn net.Conn
			for _, ip := range ips {
				conn, err = dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
			}
			return nil, err
		}
	})
}
