// Command rlncdemo runs a gossip-network broadcast simulation driven by the
// real rlnc encoder/decoder, alongside Reed-Solomon and plain-gossip
// baselines for comparison.
package main

import (
	crand "crypto/rand"
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/reedsolomon"
	"gonum.org/v1/gonum/mat"

	"github.com/mempirate/rlnc-go/galois"
	"github.com/mempirate/rlnc-go/internal/rlog"
	"github.com/mempirate/rlnc-go/packet"
	"github.com/mempirate/rlnc-go/rlnc"
)

const (
	fileSize  = 64 * 1024 // 64 kB
	chunkSize = 1024      // 1 kB per symbol, before the boundary marker inflates the chunk
	k         = fileSize / chunkSize
	numPeers  = 4
	fanout    = 2 // each peer forwards to 2 random peers
)

// Msg is what travels over a peer's inbox channel: either a coded RLNC
// packet or, in plain-gossip mode, an uncoded chunk.
type Msg struct {
	Coded    *packet.Packet
	DataOnly []byte
}

// Peer is one node in the simulated broadcast network. Its decoder is the
// real streaming RREF decoder; "innovative" now means "Decode raised the
// decoder's rank", not a heuristic.
type Peer struct {
	id             int
	inbox          chan Msg
	outChans       []chan Msg
	dec            *rlnc.Decoder
	dupCount       int
	done           chan struct{}
	firstInnovTime time.Time
	decodedAt      time.Time
}

func (p *Peer) run(wg *sync.WaitGroup, plain bool, startTime time.Time, lossProb float64, progress chan<- ProgressEvent) {
	defer wg.Done()
	receivedChunks := make(map[string]bool)

	for {
		select {
		case msg, ok := <-p.inbox:
			if !ok {
				return
			}
			if plain {
				if msg.DataOnly != nil {
					key := string(msg.DataOnly)
					if !receivedChunks[key] {
						receivedChunks[key] = true
						p.forward(msg, lossProb)
					}
				}
				continue
			}

			if p.dec.IsDone() {
				p.dupCount++
				continue
			}

			before := p.dec.Rank()
			result, err := p.dec.Decode(msg.Coded)
			if err != nil {
				rlog.Default.Warn("rejected malformed packet", "peer", p.id, "err", err)
				continue
			}
			if p.dec.Rank() > before {
				if before == 0 {
					p.firstInnovTime = time.Now()
				}
				p.forward(msg, lossProb)
				emitProgress(progress, p.id, p.dec.Rank())
				if result != nil {
					p.decodedAt = time.Now()
				}
			} else {
				p.dupCount++
			}
		case <-p.done:
			return
		}
	}
}

func (p *Peer) forward(msg Msg, lossProb float64) {
	for _, ch := range p.outChans {
		if rand.Float64() < lossProb {
			continue
		}
		select {
		case ch <- msg:
		default:
		}
	}
}

func encodeFile() (*rlnc.Encoder, []byte) {
	src := make([]byte, fileSize)
	crand.Read(src)
	enc, err := rlnc.NewEncoder(src, k)
	if err != nil {
		panic(err)
	}
	return enc, src
}

// verifyRankWithSVD computes the rank of the given coding vectors with a
// gonum/mat SVD, treating each byte as a real number. simulate passes it
// every coding vector the source emits and logs the result beside K; the
// value is not compared against any peer decoder's rank.
func verifyRankWithSVD(vectors [][]byte, chunkCount int) int {
	if len(vectors) == 0 {
		return 0
	}
	data := make([]float64, len(vectors)*chunkCount)
	for i, v := range vectors {
		for j, b := range v {
			data[i*chunkCount+j] = float64(b)
		}
	}
	m := mat.NewDense(len(vectors), chunkCount, data)
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDThin) {
		return 0
	}
	rank := 0
	for _, v := range svd.Values(nil) {
		if v > 1e-6 {
			rank++
		}
	}
	return rank
}

func simulate(plain bool, lossProb float64, verifyRank bool, progress chan<- ProgressEvent) (avgInnov, avgDup float64, latencies []time.Duration) {
	enc, _ := encodeFile()
	startTime := time.Now()

	peers := make([]*Peer, numPeers)
	for i := 0; i < numPeers; i++ {
		dec, err := rlnc.NewDecoder(enc.ChunkSize(), enc.ChunkCount())
		if err != nil {
			panic(err)
		}
		peers[i] = &Peer{
			id:       i,
			inbox:    make(chan Msg, 10000),
			outChans: make([]chan Msg, 0),
			done:     make(chan struct{}),
			dec:      dec,
		}
	}

	for _, p := range peers {
		for len(p.outChans) < fanout {
			q := peers[rand.Intn(numPeers)]
			if q != p {
				p.outChans = append(p.outChans, q.inbox)
			}
		}
	}

	var wg sync.WaitGroup
	for _, p := range peers {
		p.dupCount = 0
		wg.Add(1)
		go p.run(&wg, plain, startTime, lossProb, progress)
	}

	if plain {
		for i := 0; i < k; i++ {
			sp, err := enc.Systematic(i)
			if err != nil {
				panic(err)
			}
			peers[0].forward(Msg{DataOnly: sp.Payload}, lossProb)
		}
	} else {
		var vectors [][]byte
		for i := 0; i < k*3; i++ {
			p, err := enc.Code(crand.Reader)
			if err != nil {
				panic(err)
			}
			if verifyRank {
				vectors = append(vectors, append([]byte{}, p.CodingVector...))
			}
			peers[0].forward(Msg{Coded: p}, lossProb)
		}
		if verifyRank {
			svdRank := verifyRankWithSVD(vectors, enc.ChunkCount())
			rlog.Default.Info("svd rank oracle", "rank", svdRank, "k", enc.ChunkCount())
		}
	}

	time.Sleep(2 * time.Second)

	for _, p := range peers {
		close(p.done)
	}
	wg.Wait()

	for _, p := range peers {
		avgInnov += float64(p.dec.Rank())
		avgDup += float64(p.dupCount)
		if !p.firstInnovTime.IsZero() {
			latencies = append(latencies, p.firstInnovTime.Sub(startTime))
		}
	}
	avgInnov /= float64(numPeers)
	avgDup /= float64(numPeers)
	return
}

func simulateRS(lossProb float64) (avgInnov, avgDup float64, latencies []time.Duration) {
	n := k * 2
	enc, err := reedsolomon.New(k, n-k)
	if err != nil {
		panic(err)
	}

	src := make([]byte, fileSize)
	crand.Read(src)
	blocks := make([][]byte, k)
	for i := 0; i < k; i++ {
		blocks[i] = src[i*chunkSize : (i+1)*chunkSize]
	}
	shards := make([][]byte, n)
	for i := 0; i < k; i++ {
		shards[i] = make([]byte, chunkSize)
		copy(shards[i], blocks[i])
	}
	for i := k; i < n; i++ {
		shards[i] = make([]byte, chunkSize)
	}
	if err := enc.Encode(shards); err != nil {
		panic(err)
	}

	peers := make([]map[string]bool, numPeers)
	dupCounts := make([]int, numPeers)
	firstTimes := make([]time.Time, numPeers)
	startTime := time.Now()

	for i := 0; i < n; i++ {
		for p := 0; p < numPeers; p++ {
			if rand.Float64() < lossProb {
				continue
			}
			if peers[p] == nil {
				peers[p] = make(map[string]bool)
			}
			key := string(shards[i])
			if !peers[p][key] {
				peers[p][key] = true
				if len(peers[p]) == 1 {
					firstTimes[p] = time.Now()
				}
			} else {
				dupCounts[p]++
			}
		}
	}

	for p := 0; p < numPeers; p++ {
		avgInnov += float64(len(peers[p]))
		avgDup += float64(dupCounts[p])
		if !firstTimes[p].IsZero() {
			latencies = append(latencies, firstTimes[p].Sub(startTime))
		}
	}
	avgInnov /= float64(numPeers)
	avgDup /= float64(numPeers)
	return
}

func computeLatencyStats(latencies []time.Duration) (p50, p95 time.Duration) {
	if len(latencies) == 0 {
		return 0, 0
	}
	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})
	p50 = latencies[len(latencies)*50/100]
	p95 = latencies[len(latencies)*95/100]
	return
}

// simulateMultihopRLNC chains recoding decoders across hops: each surviving
// node re-derives k*2 fresh coded packets from whatever it currently holds
// (Decoder.Recode), rather than mixing the untouched source symbols at
// every hop.
func simulateMultihopRLNC(lossProb float64, hops int) int {
	enc, _ := encodeFile()

	dec, err := rlnc.NewDecoder(enc.ChunkSize(), enc.ChunkCount())
	if err != nil {
		panic(err)
	}
	var curr []*packet.Packet
	for i := 0; i < k*2; i++ {
		p, err := enc.Code(crand.Reader)
		if err != nil {
			panic(err)
		}
		curr = append(curr, p)
	}

	for h := 0; h < hops; h++ {
		next := make([]*packet.Packet, 0, len(curr))
		for _, p := range curr {
			if rand.Float64() >= lossProb {
				next = append(next, p)
			}
		}
		if len(next) < k {
			curr = next
			break
		}

		hopDec, err := rlnc.NewDecoder(enc.ChunkSize(), enc.ChunkCount())
		if err != nil {
			panic(err)
		}
		for _, p := range next {
			if _, err := hopDec.Decode(p.Clone()); err != nil {
				panic(err)
			}
		}
		curr = curr[:0]
		for i := 0; i < k*2 && hopDec.Rank() > 0; i++ {
			rp, err := hopDec.Recode(crand.Reader)
			if err != nil {
				panic(err)
			}
			curr = append(curr, rp)
		}
	}

	for _, p := range curr {
		if _, err := dec.Decode(p.Clone()); err != nil {
			panic(err)
		}
	}
	return dec.Rank()
}

func simulateMultihopRS(lossProb float64, hops int) int {
	enc, err := reedsolomon.New(k, k)
	if err != nil {
		panic(err)
	}
	src := make([]byte, fileSize)
	crand.Read(src)
	blocks := make([][]byte, k)
	for i := 0; i < k; i++ {
		blocks[i] = src[i*chunkSize : (i+1)*chunkSize]
	}
	shards := make([][]byte, k*2)
	for i := 0; i < k; i++ {
		shards[i] = make([]byte, chunkSize)
		copy(shards[i], blocks[i])
	}
	for i := k; i < k*2; i++ {
		shards[i] = make([]byte, chunkSize)
	}
	if err := enc.Encode(shards); err != nil {
		panic(err)
	}
	curr := shards
	for h := 0; h < hops; h++ {
		next := make([][]byte, 0, len(curr))
		for _, s := range curr {
			if rand.Float64() >= lossProb {
				next = append(next, s)
			}
		}
		curr = next
	}
	seen := make(map[string]struct{})
	for _, s := range curr {
		seen[string(s)] = struct{}{}
	}
	return len(seen)
}

func main() {
	lossProb := flag.Float64("loss", 0.0, "Packet loss probability (0.0 to 1.0)")
	codeType := flag.String("code", "rlnc", "Coding scheme: rlnc, rs, or plain")
	compare := flag.Bool("compare", false, "Compare RLNC, RS, and plain side by side")
	multihop := flag.Bool("multihop", false, "Run multi-hop chain simulation for RLNC and RS")
	hops := flag.Int("hops", 3, "Number of hops for multi-hop simulation")
	verifyRank := flag.Bool("verify-rank", false, "Cross-check decoder rank against a gonum/mat SVD oracle")
	dumpTables := flag.Bool("dump-tables", false, "Print the GF(2^8) log/antilog tables and exit")
	serve := flag.String("serve", "", "If set, serve live per-peer progress over a websocket at this address (e.g. :8080)")
	flag.Parse()

	if *dumpTables {
		log, antilog := galois.Tables()
		fmt.Println("log:")
		fmt.Println(log)
		fmt.Println("antilog:")
		fmt.Println(antilog)
		return
	}

	var progress chan ProgressEvent
	if *serve != "" {
		progress = make(chan ProgressEvent, 256)
		go func() {
			if err := ServeProgress(*serve, progress); err != nil {
				rlog.Default.Error("progress server exited", "err", err)
			}
		}()
	}

	fmt.Printf("Running simulation with:\n")
	fmt.Printf("  - Packet loss probability: %.2f\n", *lossProb)
	fmt.Printf("  - Galois Field size: GF(2^8)\n")

	if *multihop {
		fmt.Printf("Multi-hop simulation: %d hops, loss per hop: %.2f\n", *hops, *lossProb)
		innovRLNC := simulateMultihopRLNC(*lossProb, *hops)
		innovRS := simulateMultihopRS(*lossProb, *hops)
		fmt.Printf("RLNC innovative at destination: %d/%d\n", innovRLNC, k)
		fmt.Printf("RS innovative at destination:   %d/%d\n", innovRS, k)
		return
	}

	if *compare {
		innovR, dupR, latR := simulate(false, *lossProb, *verifyRank, progress)
		p50R, p95R := computeLatencyStats(latR)
		innovS, dupS, latS := simulateRS(*lossProb)
		p50S, p95S := computeLatencyStats(latS)
		innovP, _, latP := simulate(true, *lossProb, false, progress)
		p50P, p95P := computeLatencyStats(latP)
		fmt.Println("\n| Scheme | Avg Innovative | Avg Dups | Latency p50 | Latency p95 |")
		fmt.Println("|--------|----------------|----------|-------------|-------------|")
		fmt.Printf("| RLNC   | %.1f           | %.1f     | %v   | %v   |\n", innovR, dupR, p50R, p95R)
		fmt.Printf("| RS     | %.1f           | %.1f     | %v   | %v   |\n", innovS, dupS, p50S, p95S)
		fmt.Printf("| Plain  | %.1f           |    -     | %v   | %v   |\n", innovP, p50P, p95P)
		return
	}

	fmt.Printf("  - Coding scheme: %s\n", *codeType)

	switch *codeType {
	case "rlnc":
		innov, dup, latencies := simulate(false, *lossProb, *verifyRank, progress)
		p50, p95 := computeLatencyStats(latencies)
		fmt.Printf("RLNC   avg innovative symbols: %.1f  avg dups: %.1f\n", innov, dup)
		fmt.Printf("       latency p50: %v  p95: %v\n", p50, p95)
	case "rs":
		innov, dup, latencies := simulateRS(*lossProb)
		p50, p95 := computeLatencyStats(latencies)
		fmt.Printf("RS     avg innovative symbols: %.1f  avg dups: %.1f\n", innov, dup)
		fmt.Printf("       latency p50: %v  p95: %v\n", p50, p95)
	case "plain":
		innov, _, latencies := simulate(true, *lossProb, false, progress)
		p50, p95 := computeLatencyStats(latencies)
		fmt.Printf("Plain  avg chunks received   : %.1f  (duplicates not tracked)\n", innov)
		fmt.Printf("       latency p50: %v  p95: %v\n", p50, p95)
	default:
		fmt.Println("Unknown code type. Use 'rlnc', 'rs', or 'plain'.")
	}
}
