package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"fundwise/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// net/http keep-alive pollers linger briefly after server shutdown.
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
	)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	tokens, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	c := New(ts.URL, tokens, nil)
	t.Cleanup(c.HTTP.CloseIdleConnections)
	return c, tokens
}

// =============================================================================
// AUTH
// =============================================================================

func TestLogin_Success(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "auth endpoints must not send a bearer token")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"access_token":"tok-abc","token_type":"bearer"}`))
	}))

	token, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
}

func TestLogin_DetailPassesThrough(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"No user found. Please register first."}`))
	}))

	_, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "No user found. Please register first.", se.Detail)
}

func TestLogin_MissingToken(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	_, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	assert.Error(t, err)
}

func TestRegister_ConflictMapsToErrEmailTaken(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"User already registered."}`))
	}))

	_, err := c.Register(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_OtherStatusKeepsDetail(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"Internal Server Error"}`))
	}))

	_, err := c.Register(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Internal Server Error", se.Detail)
}

// =============================================================================
// SCHEME CATALOG
// =============================================================================

func TestSchemes_DecodesAndAttachesBearer(t *testing.T) {
	var gotAuth string
	c, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"SchemeID":101,"Scheme":"axis bluechip"},{"SchemeID":205,"Scheme":"hdfc midcap"}]`))
	}))
	require.NoError(t, tokens.SetToken("tok-xyz"))

	entries, err := c.Schemes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-xyz", gotAuth)

	want := []SchemeEntry{
		{SchemeID: 101, Scheme: "axis bluechip"},
		{SchemeID: 205, Scheme: "hdfc midcap"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemes_NoTokenNoHeader(t *testing.T) {
	var sawAuth bool
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		w.Write([]byte(`[]`))
	}))

	_, err := c.Schemes(context.Background())
	require.NoError(t, err)
	assert.False(t, sawAuth, "no stored token means no Authorization header")
}

// =============================================================================
// NEW INVESTOR
// =============================================================================

func TestRecommendNew_FundList(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommend/new", r.URL.Path)
		w.Write([]byte(`[{"SchemeID":101,"Scheme_Name":"Axis Bluechip","NAV":45.678,"Units_Purchasable":1094.9}]`))
	}))

	funds, err := c.RecommendNew(context.Background(), NewInvestorProfile{
		Budget: 50000, RiskLevel: "Medium",
	})
	require.NoError(t, err)
	require.Len(t, funds, 1)
	assert.Equal(t, int64(101), funds[0].SchemeID)
	assert.Equal(t, "Axis Bluechip", funds[0].SchemeName)
	assert.Equal(t, "45.68", funds[0].NAV.StringFixed(2))
	assert.Equal(t, "1094.9", funds[0].UnitsPurchasable.String())
}

func TestRecommendNew_MessageBecomesNoMatch(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"No funds match your criteria."}`))
	}))

	funds, err := c.RecommendNew(context.Background(), NewInvestorProfile{Budget: 1, RiskLevel: "Low"})
	assert.Nil(t, funds)

	var nm *NoMatchError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, "No funds match your criteria.", nm.Message)
}

func TestRecommendNew_TransportFailureIsNotDomainError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	tokens, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	c := New(ts.URL, tokens, nil)
	ts.Close() // connection refused from here on

	_, err = c.RecommendNew(context.Background(), NewInvestorProfile{Budget: 1, RiskLevel: "Low"})
	require.Error(t, err)

	var nm *NoMatchError
	assert.False(t, errors.As(err, &nm), "transport failure must not look like a domain error")
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

// =============================================================================
// EXISTING INVESTOR
// =============================================================================

func TestRecommendExisting_ErrorField(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Scheme not found"}`))
	}))

	cmpRes, err := c.RecommendExisting(context.Background(), HeldPosition{SchemeID: 1})
	assert.Nil(t, cmpRes)

	var ce *ComparisonError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Scheme not found", ce.Message)
}

func TestRecommendExisting_FullPayload(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Your_Fund": {
				"SchemeID": 101,
				"Scheme": "Axis Bluechip",
				"NAV_at_Purchase": 40.5,
				"Current_NAV": 45.68,
				"Units_Held": 120,
				"Current_Value": 5481.6,
				"CAGR": 12.34
			},
			"Suggestion": "Switch",
			"Reason": "Better fund found.",
			"Recommended_Fund": {
				"Recommended_SchemeID": 205,
				"Recommended_Scheme": "HDFC Midcap",
				"NAV": 91.2
			}
		}`))
	}))

	got, err := c.RecommendExisting(context.Background(), HeldPosition{
		SchemeID: 101, NAVAtPurchase: 40.5, UnitsHeld: 120, PurchaseDate: "2023-01-15",
	})
	require.NoError(t, err)
	require.NotNil(t, got.YourFund)
	require.NotNil(t, got.RecommendedFund)

	assert.Equal(t, int64(101), *got.YourFund.SchemeID)
	assert.Equal(t, "Axis Bluechip", *got.YourFund.Scheme)
	assert.True(t, got.YourFund.CurrentNAV.Equal(decimal.NewFromFloat(45.68)))
	assert.Equal(t, "Switch", *got.Suggestion)
	assert.Equal(t, "HDFC Midcap", *got.RecommendedFund.Scheme)
}

func TestRecommendExisting_SparsePayloadLeavesNils(t *testing.T) {
	// The "no similar peers" answer has none of the usual keys; every
	// optional leaf must stay nil rather than fail to decode.
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Current Fund ID": 101,
			"Latest NAV": 45.68,
			"Recommendation": "Hold",
			"Reason": "No similar peer funds found."
		}`))
	}))

	got, err := c.RecommendExisting(context.Background(), HeldPosition{SchemeID: 101})
	require.NoError(t, err)
	assert.Nil(t, got.YourFund)
	assert.Nil(t, got.Suggestion)
	assert.Nil(t, got.RecommendedFund)
	require.NotNil(t, got.Reason)
	assert.Equal(t, "No similar peer funds found.", *got.Reason)
}

func TestRecommendExisting_EmptyRecommendedFundObject(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Suggestion":"Hold","Reason":"Current fund still performs well.","Recommended_Fund":{}}`))
	}))

	got, err := c.RecommendExisting(context.Background(), HeldPosition{SchemeID: 101})
	require.NoError(t, err)
	require.NotNil(t, got.RecommendedFund)
	assert.Nil(t, got.RecommendedFund.Scheme)
	assert.Nil(t, got.RecommendedFund.SchemeID)
}

// =============================================================================
// REQUEST SHAPE
// =============================================================================

func TestRequestBodies_FieldNames(t *testing.T) {
	var newBody, existingBody string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		switch r.URL.Path {
		case "/recommend/new":
			newBody = string(buf)
			w.Write([]byte(`[]`))
		case "/recommend/existing":
			existingBody = string(buf)
			w.Write([]byte(`{"Suggestion":"Hold"}`))
		}
	}))

	_, err := c.RecommendNew(context.Background(), NewInvestorProfile{
		Budget: 50000, RiskLevel: "Medium", AssetClass: "", MarketCap: "",
	})
	require.NoError(t, err)
	assert.Contains(t, newBody, `"budget":50000`)
	assert.Contains(t, newBody, `"risk_level":"Medium"`)
	assert.Contains(t, newBody, `"asset_class":""`, "empty optional filters are sent, not omitted")

	_, err = c.RecommendExisting(context.Background(), HeldPosition{
		SchemeID: 101, NAVAtPurchase: 40.5, UnitsHeld: 120, PurchaseDate: "2023-01-15",
	})
	require.NoError(t, err)
	assert.Contains(t, existingBody, `"scheme_id":101`)
	assert.Contains(t, existingBody, `"purchase_date":"2023-01-15"`)
}
