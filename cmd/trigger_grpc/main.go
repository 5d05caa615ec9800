// Command trigger_grpc starts a batch run through the gRPC BatchService and
// prints the reply.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"

	grpcbatch "github.com/light-bringer/procat-batch/internal/transport/grpc/batch"
)

func main() {
	addr := flag.String("addr", "localhost:9090", "BatchService address")
	stats := flag.Bool("stats", false, "Print product stats instead of starting a run")
	timeout := flag.Duration("timeout", 5*time.Minute, "Call timeout")
	flag.Parse()

	// Connect to gRPC server
	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	client := grpcbatch.NewClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	call := client.StartBatch
	if *stats {
		call = client.GetProductStats
	}

	reply, err := call(ctx)
	if err != nil {
		log.Fatalf("Call failed: %v", err)
	}

	out, err := protojson.MarshalOptions{Multiline: true}.Marshal(reply)
	if err != nil {
		log.Fatalf("Failed to encode reply: %v", err)
	}
	fmt.Println(string(out))
}
