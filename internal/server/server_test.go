package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"GO-icg/internal/game"
	"GO-icg/internal/server"
)

// queue answers queries in order; an entry with a non-nil err fails the call.
type queue struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	gate    chan struct{}
}

func (q *queue) Query(ctx context.Context, _ []game.Turn) (game.Reply, error) {
	if q.gate != nil {
		<-q.gate
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	raw := q.replies[0]
	var err error
	if len(q.errs) > 0 {
		err = q.errs[0]
		q.errs = q.errs[1:]
	}
	q.replies = q.replies[1:]
	if err != nil {
		return game.Reply{}, err
	}
	reply := game.ParseReply(raw)
	if reply.Kind == game.ReplyUnparseable {
		return reply, &game.UnparseableError{Raw: raw}
	}
	return reply, nil
}

var _ = Describe("Server", func() {
	var (
		q   *queue
		srv *httptest.Server
	)

	post := func(path string, body any) (int, server.View) {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		resp, err := http.Post(srv.URL+path, "application/json", &buf)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		var v server.View
		Expect(json.NewDecoder(resp.Body).Decode(&v)).To(Succeed())
		return resp.StatusCode, v
	}

	get := func(path string) (int, server.View) {
		resp, err := http.Get(srv.URL + path)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		var v server.View
		Expect(json.NewDecoder(resp.Body).Decode(&v)).To(Succeed())
		return resp.StatusCode, v
	}

	newSession := func() string {
		code, v := post("/api/sessions", nil)
		Expect(code).To(Equal(http.StatusCreated))
		Expect(v.Page).To(Equal(game.PageStart))
		Expect(v.ID).NotTo(BeEmpty())
		return v.ID
	}

	BeforeEach(func() {
		q = &queue{}
		m := game.NewMachine(q)
		s := server.New(m, server.NewStore(), time.Minute, logr.Discard())
		srv = httptest.NewServer(s.Handler())
		DeferCleanup(srv.Close)
	})

	When("playing a full game", func() {
		It("walks start, question and result", func() {
			q.replies = []string{
				"QUESTION: Do you enjoy starting your day before sunrise?",
				"GUESS: Gujarat",
			}
			id := newSession()

			code, v := post("/api/sessions/"+id+"/start", nil)
			Expect(code).To(Equal(http.StatusOK))
			Expect(v.Page).To(Equal(game.PageQuestion))
			Expect(v.Question).To(Equal("Do you enjoy starting your day before sunrise?"))
			Expect(v.Answers).To(Equal([]game.Answer{"Yes", "No", "Maybe", "Don't Know"}))
			Expect(v.History).To(BeEmpty())

			code, v = post("/api/sessions/"+id+"/answer", map[string]string{"answer": "Yes"})
			Expect(code).To(Equal(http.StatusOK))
			Expect(v.Page).To(Equal(game.PageResult))
			Expect(v.Guess).To(Equal("Gujarat"))
			Expect(v.Question).To(BeEmpty())
			Expect(v.History).To(Equal([]game.Turn{{Question: "Do you enjoy starting your day before sunrise?", Answer: game.AnswerYes}}))

			code, v = post("/api/sessions/"+id+"/restart", nil)
			Expect(code).To(Equal(http.StatusOK))
			Expect(v.Page).To(Equal(game.PageStart))
			Expect(v.History).To(BeEmpty())
			Expect(v.Guess).To(BeEmpty())
		})
	})

	When("the model misbehaves", func() {
		It("resets to start when the first question fails", func() {
			q.replies = []string{"GUESS: Goa"}
			id := newSession()

			code, v := post("/api/sessions/"+id+"/start", nil)
			Expect(code).To(Equal(http.StatusBadGateway))
			Expect(v.Page).To(Equal(game.PageStart))
			Expect(v.Error).To(Equal(game.MsgStartFailed))
		})

		It("keeps the question and the new turn on an unparseable reply", func() {
			q.replies = []string{"QUESTION: Onam?", "I am not sure"}
			id := newSession()
			post("/api/sessions/"+id+"/start", nil)

			code, v := post("/api/sessions/"+id+"/answer", map[string]string{"answer": "Maybe"})
			Expect(code).To(Equal(http.StatusBadGateway))
			Expect(v.Page).To(Equal(game.PageQuestion))
			Expect(v.Question).To(Equal("Onam?"))
			Expect(v.History).To(HaveLen(1))
			Expect(v.Error).To(Equal(game.MsgReplyUnclear))

			_, v = get("/api/sessions/" + id)
			Expect(v.Page).To(Equal(game.PageQuestion))
			Expect(v.History).To(HaveLen(1))
		})

		It("reports an unreachable model distinctly", func() {
			q.replies = []string{"QUESTION: Chai?", ""}
			q.errs = []error{nil, game.ErrModelUnreachable}
			id := newSession()
			post("/api/sessions/"+id+"/start", nil)

			code, v := post("/api/sessions/"+id+"/answer", map[string]string{"answer": "No"})
			Expect(code).To(Equal(http.StatusBadGateway))
			Expect(v.Error).To(Equal(game.MsgModelUnreachable))
		})
	})

	When("requests are invalid", func() {
		It("rejects unknown sessions", func() {
			code, _ := get("/api/sessions/nope")
			Expect(code).To(Equal(http.StatusNotFound))
			code, _ = post("/api/sessions/nope/start", nil)
			Expect(code).To(Equal(http.StatusNotFound))
		})

		It("rejects answers outside the fixed set", func() {
			id := newSession()
			code, v := post("/api/sessions/"+id+"/answer", map[string]string{"answer": "Absolutely"})
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(v.Error).To(ContainSubstring("invalid answer"))
		})

		It("rejects answers when no question is pending", func() {
			id := newSession()
			code, v := post("/api/sessions/"+id+"/answer", map[string]string{"answer": "Yes"})
			Expect(code).To(Equal(http.StatusConflict))
			Expect(v.Page).To(Equal(game.PageStart))
		})
	})

	When("several players are connected", func() {
		It("keeps their sessions apart", func() {
			q.replies = []string{"QUESTION: First?", "QUESTION: Second?"}
			a := newSession()
			b := newSession()
			Expect(a).NotTo(Equal(b))

			post("/api/sessions/"+a+"/start", nil)
			_, vb := get("/api/sessions/" + b)
			Expect(vb.Page).To(Equal(game.PageStart))

			post("/api/sessions/"+b+"/start", nil)
			_, va := get("/api/sessions/" + a)
			_, vb = get("/api/sessions/" + b)
			Expect(va.Question).To(Equal("First?"))
			Expect(vb.Question).To(Equal("Second?"))
		})

		It("refuses a second transition while the model is thinking", func() {
			q.replies = []string{"QUESTION: Slow?"}
			q.gate = make(chan struct{})
			id := newSession()

			done := make(chan int)
			go func() {
				defer GinkgoRecover()
				code, _ := post("/api/sessions/"+id+"/start", nil)
				done <- code
			}()

			Eventually(func() bool {
				_, v := get("/api/sessions/" + id)
				return v.Busy
			}).Should(BeTrue())

			code, _ := post("/api/sessions/"+id+"/restart", nil)
			Expect(code).To(Equal(http.StatusConflict))

			close(q.gate)
			Eventually(done).Should(Receive(Equal(http.StatusOK)))
		})
	})
})

var _ = Describe("Store", func() {
	It("evicts idle sessions only", func() {
		st := server.NewStore()
		idle, _ := st.Create()
		busy, _ := st.Create()
		_, err := st.Acquire(busy)
		Expect(err).NotTo(HaveOccurred())

		time.Sleep(5 * time.Millisecond)
		Expect(st.Evict(time.Millisecond)).To(Equal(1))

		_, _, err = st.Get(idle)
		Expect(err).To(MatchError(server.ErrSessionNotFound))
		_, busyFlag, err := st.Get(busy)
		Expect(err).NotTo(HaveOccurred())
		Expect(busyFlag).To(BeTrue())
	})
})
