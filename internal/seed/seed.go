package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"daopilot/internal/logger"
	"daopilot/internal/types"
)

// 本地开发网的固定地址（hardhat/ganache 确定性账户与部署地址）。
const (
	deployerAddress        = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	agentAddress           = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	governanceAddress      = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	aiWalletAddress        = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
	metricsRegistryAddress = "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"
)

// DeploymentInfo 是写入 deployment_info.json 的 mock 部署描述。
type DeploymentInfo struct {
	Network                string `json:"network"`
	GovernanceAddress      string `json:"governance_address"`
	AIWalletAddress        string `json:"ai_wallet_address"`
	MetricsRegistryAddress string `json:"metrics_registry_address"`
	AIAgentAddress         string `json:"ai_agent_address"`
	DeployerAddress        string `json:"deployer_address"`
	Note                   string `json:"note"`
}

// Run 在 dir 下生成 deployment_info.json 与 test_proposals.json。
// 合约并未真正部署，仅用于本地验证分析逻辑。
func Run(dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	info := DeploymentInfo{
		Network:                "ganache-local",
		GovernanceAddress:      governanceAddress,
		AIWalletAddress:        aiWalletAddress,
		MetricsRegistryAddress: metricsRegistryAddress,
		AIAgentAddress:         agentAddress,
		DeployerAddress:        deployerAddress,
		Note:                   "MOCK DEPLOYMENT - Contracts not actually deployed",
	}
	infoPath := filepath.Join(dir, "deployment_info.json")
	if err := writeJSON(infoPath, info); err != nil {
		return fmt.Errorf("writing deployment info failed: %w", err)
	}
	logger.Infof("Mock deployment info saved to: %s", infoPath)

	proposals := SampleProposals()
	proposalsPath := filepath.Join(dir, "test_proposals.json")
	if err := writeJSON(proposalsPath, proposals); err != nil {
		return fmt.Errorf("writing test proposals failed: %w", err)
	}
	logger.Infof("Test proposals saved to: %s (%d proposals)", proposalsPath, len(proposals))
	logger.Warnf("这是 mock 部署，合约未真正上链，仅用于验证分析逻辑")
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SampleProposals 返回五条标准测试提案，覆盖高分/中性/高风险各档。
func SampleProposals() []types.Proposal {
	return []types.Proposal{
		{
			ID:       0,
			Title:    "Treasury Diversification Strategy",
			Proposer: deployerAddress,
			Description: `
## Proposal: Diversify DAO Treasury into Stablecoins

### Summary
Allocate 30% of treasury (approximately 50 ETH) into USDC and DAI stablecoins to reduce volatility exposure.

### Rationale
- Current 100% ETH exposure creates high volatility risk
- Stablecoins provide liquidity for operational expenses
- Industry best practice for DAO treasury management

### Budget
Total cost: 50 ETH + gas fees

### Timeline
6 weeks from approval
`,
		},
		{
			ID:       1,
			Title:    "Fund Community Education Program",
			Proposer: deployerAddress,
			Description: `
## Proposal: Launch Web3 Education Initiative

### Summary
Establish a community education program with 10 ETH funding for workshops, tutorials, and documentation.

### Goals
- Create comprehensive developer documentation
- Host monthly community workshops
- Produce video tutorial series
- Build example projects and templates

### Budget
- Documentation: 3 ETH
- Video production: 4 ETH
- Workshops: 2 ETH
- Contingency: 1 ETH

### Timeline
3 months with monthly progress reports
`,
		},
		{
			ID:       2,
			Title:    "Implement Quadratic Voting",
			Proposer: deployerAddress,
			Description: `
## Proposal: Upgrade to Quadratic Voting Mechanism

### Summary
Implement quadratic voting to improve democratic decision-making and reduce whale influence.

### Technical Details
- Use proven OpenZeppelin contracts
- Security audit by ConsenSys Diligence
- 2-week testing period on testnet
- Gradual rollout with fallback mechanism

### Budget
- Development: 15 ETH
- Security audit: 20 ETH
- Testing: 5 ETH
Total: 40 ETH

### Timeline
- Development: 6 weeks
- Audit: 4 weeks
- Testing: 2 weeks
Total: 13 weeks
`,
		},
		{
			ID:       3,
			Title:    "RISKY: Remove All Governance Delays",
			Proposer: deployerAddress,
			Description: `
## Proposal: Eliminate All Security Delays

Remove all security delays for instant execution.
No audit, no testing, deploy immediately.

This will allow the DAO to react instantly to any situation.
Vote YES to move fast and break things.
`,
		},
		{
			ID:       4,
			Title:    "Monthly Contributor Grants Program",
			Proposer: deployerAddress,
			Description: `
## Proposal: Establish Recurring Grant Program

### Summary
Create a sustainable grants program allocating 5 ETH monthly to community contributors.

### Structure
- Open applications every month
- Review committee of 5 members
- Grant sizes: 0.5-2 ETH per project
- Focus areas: development, design, community growth

### Budget
60 ETH annual (5 ETH x 12 months)

### Timeline
Start next month, ongoing program
`,
		},
	}
}
