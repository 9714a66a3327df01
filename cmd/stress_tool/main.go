package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"course_commerce/pkg/loadtest"
)

var httpClient *http.Client

func init() {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type checkoutData struct {
	OrderID      string `json:"orderId"`
	TransferCode string `json:"transferCode"`
	TotalAmount  int64  `json:"totalAmount"`
	Reused       bool   `json:"reused"`
}

type confirmData struct {
	OrderID          string `json:"orderId"`
	AlreadyProcessed bool   `json:"alreadyProcessed"`
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "服务地址")
	bookID := flag.String("book", "", "用于下单的电子书 ID")
	email := flag.String("email", "", "买家邮箱，默认随机生成")
	apiKey := flag.String("api-key", os.Getenv("WEBHOOK_API_KEY"), "银行回调 X-API-Key")
	checkouts := flag.Int("checkouts", 50, "同一买家并发下单次数")
	deliveries := flag.Int("deliveries", 200, "同一笔到账的并发回调次数")
	concurrency := flag.Int("c", 50, "并发数")
	flag.Parse()

	if *bookID == "" || *apiKey == "" {
		fmt.Println("用法: stress_tool -book <id> -api-key <key> [-base url]")
		os.Exit(2)
	}
	if *email == "" {
		*email = fmt.Sprintf("stress+%d@example.com", time.Now().UnixNano())
	}

	ctx := context.Background()
	api := *baseURL + "/api/v1"

	// 1. 同一买家并发下单：必须复用同一张待支付订单
	var (
		mu     sync.Mutex
		orders = make(map[string]checkoutData)
	)
	body := map[string]any{
		"contact": map[string]string{"email": *email, "fullName": "Stress Tester", "phone": "0900000000"},
	}
	r := loadtest.NewBurst("checkout reuse", *checkouts, *concurrency).Run(ctx, func(ctx context.Context, i int) error {
		var out checkoutData
		if err := postJSON(ctx, api+"/checkout/books/"+*bookID, nil, body, &out); err != nil {
			return err
		}
		mu.Lock()
		orders[out.OrderID] = out
		mu.Unlock()
		return nil
	})
	r.PrintResult()

	if len(orders) != 1 {
		fmt.Printf("❌ 期望 1 张待支付订单，实际 %d 张\n", len(orders))
		os.Exit(1)
	}
	var order checkoutData
	for _, o := range orders {
		order = o
	}
	fmt.Printf("✅ 订单 %s 转账码 %s 金额 %d\n", order.OrderID, order.TransferCode, order.TotalAmount)

	// 2. 同一笔到账并发重复投递：只能确认一次
	var processed atomic.Int32
	headers := map[string]string{"X-API-Key": *apiKey}
	webhook := map[string]any{
		"transfer_code":           order.TransferCode,
		"content":                 "THANH TOAN " + order.TransferCode,
		"external_transaction_id": fmt.Sprintf("FT%d", time.Now().UnixNano()),
		"amount":                  order.TotalAmount,
	}
	r = loadtest.NewBurst("webhook redelivery", *deliveries, *concurrency).Run(ctx, func(ctx context.Context, i int) error {
		var out confirmData
		if err := postJSON(ctx, api+"/payments/webhook/bank", headers, webhook, &out); err != nil {
			return err
		}
		if !out.AlreadyProcessed {
			processed.Add(1)
		}
		return nil
	})
	r.PrintResult()

	if n := processed.Load(); n != 1 {
		fmt.Printf("❌ 期望恰好 1 次确认，实际 %d 次\n", n)
		os.Exit(1)
	}
	fmt.Println("✅ 并发重复回调只确认了一次")
}

func postJSON(ctx context.Context, url string, headers map[string]string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}
	if resp.StatusCode != http.StatusOK || env.Code != 0 {
		return fmt.Errorf("status %d code %d: %s", resp.StatusCode, env.Code, env.Message)
	}
	return json.Unmarshal(env.Data, out)
}
