package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	sdktypes "github.com/blocto/solana-go-sdk/types"

	"klend-client-sol/internal/logic/state"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/types"
)

// Client 对 blocto RPC 客户端的薄封装，同时实现 state.AccountFetcher 与 submitter.Transport
type Client struct {
	rpc     *client.Client
	timeout time.Duration
}

var (
	_ state.AccountFetcher = (*Client)(nil)
	_ submitter.Transport  = (*Client)(nil)
)

func New(endpoint string, timeout time.Duration) (*Client, error) {
	if endpoint == "" {
		return nil, errs.InvalidArgument("rpc endpoint is empty")
	}
	c := client.NewClient(endpoint)
	if c == nil {
		return nil, errors.New("rpc client init failed")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{rpc: c, timeout: timeout}, nil
}

func (c *Client) GetAccount(ctx context.Context, addr types.Pubkey) (*state.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	info, err := c.rpc.GetAccountInfo(ctx, addr.String())
	if err != nil {
		return nil, classify("getAccountInfo", err)
	}
	if isEmpty(info) {
		return nil, fmt.Errorf("%w: %s", errs.ErrAccountNotFound, addr)
	}
	return toAccount(info), nil
}

func (c *Client) GetMultipleAccounts(ctx context.Context, addrs []types.Pubkey) ([]*state.Account, error) {
	if len(addrs) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	keys := make([]string, len(addrs))
	for i, a := range addrs {
		keys[i] = a.String()
	}

	start := time.Now()
	infos, err := c.rpc.GetMultipleAccounts(ctx, keys)
	if err != nil {
		return nil, classify("getMultipleAccounts", err)
	}
	logger.Debugf("[RpcClient] GetMultipleAccounts 成功, 账户数: %d, 耗时: %v", len(keys), time.Since(start))

	if len(infos) != len(addrs) {
		return nil, fmt.Errorf("返回账户数与请求不一致: got=%d want=%d", len(infos), len(addrs))
	}
	result := make([]*state.Account, len(infos))
	for i, info := range infos {
		if isEmpty(info) {
			continue
		}
		result[i] = toAccount(info)
	}
	return result, nil
}

func (c *Client) GetLatestBlockhash(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", classify("getLatestBlockhash", err)
	}
	return resp.Blockhash, nil
}

func (c *Client) SendTransaction(ctx context.Context, tx sdktypes.Transaction) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return "", classify("sendTransaction", err)
	}
	return sig, nil
}

func (c *Client) GetSignatureStatus(ctx context.Context, signature string) (*submitter.SignatureStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, err := c.rpc.GetSignatureStatus(ctx, signature)
	if err != nil {
		return nil, classify("getSignatureStatuses", err)
	}
	return convertStatus(status), nil
}

// MinimumBalanceForRentExemption 新建账户所需的免租金 lamports
func (c *Client) MinimumBalanceForRentExemption(ctx context.Context, space uint64) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, space)
	if err != nil {
		return 0, classify("getMinimumBalanceForRentExemption", err)
	}
	return lamports, nil
}

// GetAccountInfo 返回空 AccountInfo 表示账户不存在
func isEmpty(info client.AccountInfo) bool {
	return info.Lamports == 0 && len(info.Data) == 0
}

func toAccount(info client.AccountInfo) *state.Account {
	return &state.Account{
		Owner:    types.Pubkey(info.Owner),
		Lamports: info.Lamports,
		Data:     info.Data,
	}
}
