package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStat struct{ acquired, idle, total int32 }

func (f fakeStat) AcquiredConns() int32 { return f.acquired }
func (f fakeStat) IdleConns() int32     { return f.idle }
func (f fakeStat) TotalConns() int32    { return f.total }

func TestObserveCodec(t *testing.T) {
	before := testutil.ToFloat64(CodecOperations.WithLabelValues("decode", "error"))
	ObserveCodec("decode", errors.New("boom"))
	after := testutil.ToFloat64(CodecOperations.WithLabelValues("decode", "error"))
	if after-before != 1 {
		t.Errorf("expected error counter to increase by 1, got %v", after-before)
	}
}

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(fakeStat{acquired: 3, idle: 7, total: 10})
	if got := testutil.ToFloat64(DBPoolConnsOpen); got != 10 {
		t.Errorf("expected 10 open conns, got %v", got)
	}
	if got := testutil.ToFloat64(DBPoolConnsIdle); got != 7 {
		t.Errorf("expected 7 idle conns, got %v", got)
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/metrics", Handler())
	app.Get("/v1/digipin/decode/:code", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/digipin/decode/39J438TJC7", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `path="/v1/digipin/decode/:code"`) {
		t.Errorf("expected route pattern label in metrics output")
	}
}
