package mockbackend

import (
	"fmt"
	"strings"

	"github.com/wealthlens-labs/wealthlens/internal/contract"
)

// respond picks a canned response by keyword. The matching is crude on
// purpose: the mock exists to exercise rendering, not to answer.
func respond(query string) contract.QueryResponse {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "portfolio") && strings.Contains(q, "value"):
		return portfolioValuesResponse()
	case strings.Contains(q, "relationship manager") || strings.Contains(q, " rm"):
		return managerBreakupResponse()
	case strings.Contains(q, "top"):
		return topClientsResponse()
	case strings.Contains(q, "mumbai") || strings.Contains(q, "delhi") || strings.Contains(q, "city"):
		return clientsByCityResponse()
	case strings.Contains(q, "fail"):
		return contract.QueryResponse{
			Success:      false,
			ErrorMessage: "Could not understand the question. Try rephrasing it.",
		}
	default:
		return contract.QueryResponse{
			Success: true,
			TextResponse: fmt.Sprintf(
				"I looked into %q but found no structured data to show. "+
					"Try asking about portfolio values, top clients, or relationship managers.", query),
		}
	}
}

func portfolioValuesResponse() contract.QueryResponse {
	return contract.QueryResponse{
		Success:      true,
		TextResponse: "Here are the five largest portfolios by current market value.",
		TableData: &contract.TablePayload{
			Columns: []string{"Client", "Portfolio", "Value", "City"},
			Rows: []map[string]any{
				{"Client": "Ananya Iyer", "Portfolio": "Growth Equity", "Value": "₹4,20,00,000", "City": "Mumbai"},
				{"Client": "Rohan Mehta", "Portfolio": "Balanced", "Value": "₹2,85,00,000", "City": "Delhi"},
				{"Client": "Priya Sharma", "Portfolio": "Income", "Value": "₹1,90,00,000", "City": "Bengaluru"},
				{"Client": "Vikram Rao", "Portfolio": "Growth Equity", "Value": "₹1,45,00,000", "City": "Mumbai"},
				{"Client": "Sneha Kulkarni", "Portfolio": "Conservative", "Value": "₹98,00,000", "City": "Pune"},
			},
		},
		ChartData: &contract.ChartPayload{
			Type:   "bar",
			Title:  "Top portfolios by value",
			Labels: []string{"Ananya Iyer", "Rohan Mehta", "Priya Sharma", "Vikram Rao", "Sneha Kulkarni"},
			Datasets: []contract.DatasetPayload{
				{Label: "Portfolio value", Data: []float64{42000000, 28500000, 19000000, 14500000, 9800000}},
			},
		},
	}
}

func managerBreakupResponse() contract.QueryResponse {
	return contract.QueryResponse{
		Success:      true,
		TextResponse: "Assets under management split across relationship managers.",
		TableData: &contract.TablePayload{
			Columns: []string{"Manager", "Clients", "AUM"},
			Rows: []map[string]any{
				{"Manager": "Kavita Nair", "Clients": 14, "AUM": "₹8,40,00,000"},
				{"Manager": "Arjun Desai", "Clients": 11, "AUM": "₹6,10,00,000"},
				{"Manager": "Meera Joshi", "Clients": 9, "AUM": "₹4,75,00,000"},
			},
		},
		ChartData: &contract.ChartPayload{
			Type:   "pie",
			Title:  "AUM by relationship manager",
			Labels: []string{"Kavita Nair", "Arjun Desai", "Meera Joshi"},
			Datasets: []contract.DatasetPayload{
				{Label: "AUM", Data: []float64{84000000, 61000000, 47500000}},
			},
		},
	}
}

func topClientsResponse() contract.QueryResponse {
	return contract.QueryResponse{
		Success:      true,
		TextResponse: "Your top three clients account for just under half of total AUM.",
		TableData: &contract.TablePayload{
			Columns: []string{"Rank", "Client", "Total Holdings"},
			Rows: []map[string]any{
				{"Rank": 1, "Client": "Ananya Iyer", "Total Holdings": "₹4,20,00,000"},
				{"Rank": 2, "Client": "Rohan Mehta", "Total Holdings": "₹2,85,00,000"},
				{"Rank": 3, "Client": "Priya Sharma", "Total Holdings": "₹1,90,00,000"},
			},
		},
	}
}

func clientsByCityResponse() contract.QueryResponse {
	return contract.QueryResponse{
		Success:      true,
		TextResponse: "Client count per city across the book.",
		TableData: &contract.TablePayload{
			Columns: []string{"City", "Clients"},
			Rows: []map[string]any{
				{"City": "Mumbai", "Clients": 18},
				{"City": "Delhi", "Clients": 12},
				{"City": "Bengaluru", "Clients": 9},
				{"City": "Pune", "Clients": 6},
			},
		},
		ChartData: &contract.ChartPayload{
			Type:   "line",
			Title:  "Clients per city",
			Labels: []string{"Mumbai", "Delhi", "Bengaluru", "Pune"},
			Datasets: []contract.DatasetPayload{
				{Label: "Clients", Data: []float64{18, 12, 9, 6}},
			},
		},
	}
}

func exampleFixtures() []contract.ExampleCategory {
	return []contract.ExampleCategory{
		{
			Category: "Portfolio Analysis",
			Queries: []string{
				"What is the total portfolio value for all clients?",
				"Show me the top 5 clients by portfolio value",
				"Which clients have portfolios above 1 crore?",
			},
		},
		{
			Category: "Relationship Manager Insights",
			Queries: []string{
				"How many clients does each relationship manager handle?",
				"Show AUM by relationship manager",
				"Which relationship manager has the highest AUM?",
			},
		},
		{
			Category: "Client Information",
			Queries: []string{
				"List all clients in Mumbai",
				"Show me clients by city",
				"Which clients joined this year?",
			},
		},
	}
}

func statsFixture() contract.StatsSnapshot {
	return contract.StatsSnapshot{
		"total_clients":         45,
		"active_portfolios":     62,
		"total_portfolio_value": "₹28,40,00,000",
		"relationship_managers": 3,
		"last_updated":          "2026-08-29T09:00:00Z",
	}
}
