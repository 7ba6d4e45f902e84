// Package kb provides the seeded banking knowledge base used to build the
// initial document store when no persisted state exists.
package kb

import "github.com/atlasbank/bankrag/internal/models"

// Documents returns the built-in banking policy corpus. Order matters: the
// vector index is positionally aligned with this order on first build.
func Documents() []*models.Document {
	return []*models.Document{
		{
			ID:       "doc_001",
			Title:    "Personal Loan Requirements",
			Content:  "Personal loan requirements include: minimum age of 21 years, maximum age of 65 years at loan maturity, minimum monthly income of $3,000, employment history of at least 2 years, good credit score (minimum 650), debt-to-income ratio below 40%, valid identification documents, proof of income (pay stubs, tax returns), and bank statements for the last 6 months. Loan amounts range from $1,000 to $100,000 with terms from 12 to 84 months. Interest rates vary based on creditworthiness, typically ranging from 5.99% to 24.99% APR.",
			Category: "loans",
			Source:   "lending_policies.pdf",
		},
		{
			ID:       "doc_002",
			Title:    "Savings Account Features and Benefits",
			Content:  "Our savings accounts offer competitive interest rates, no monthly maintenance fees with minimum balance of $100, online and mobile banking access, ATM network access at 60,000+ locations nationwide, FDIC insurance up to $250,000 per depositor, automatic savings programs, direct deposit capabilities, and 24/7 customer service. Premium savings accounts require $10,000 minimum balance and offer higher interest rates, relationship banking benefits, and waived fees on other services.",
			Category: "accounts",
			Source:   "product_guide.pdf",
		},
		{
			ID:       "doc_003",
			Title:    "Credit Card Application Process",
			Content:  "Credit card application process: complete online application with personal information, employment details, and financial information. Required documents include valid government-issued ID, Social Security number, proof of income, and employment verification. Processing time is typically 7-10 business days. Approval factors include credit score (minimum 600 for basic cards, 700+ for premium cards), income verification, debt-to-income ratio, and credit history length. New cardholders receive welcome bonuses, 0% introductory APR for 12 months, and fraud protection.",
			Category: "credit",
			Source:   "credit_policies.pdf",
		},
		{
			ID:       "doc_004",
			Title:    "Investment Account Options",
			Content:  "Investment account options include Individual Retirement Accounts (IRA), Roth IRA, 401(k) rollovers, brokerage accounts, mutual funds, ETFs, and certificate of deposits. Minimum opening deposits vary: $500 for IRAs, $1,000 for brokerage accounts, $100 for CDs. Investment advisory services available with certified financial planners. Risk assessment and portfolio recommendations based on age, income, and retirement goals. Online trading platform with research tools, market analysis, and educational resources.",
			Category: "investments",
			Source:   "investment_guide.pdf",
		},
		{
			ID:       "doc_005",
			Title:    "Mobile Banking Security Features",
			Content:  "Mobile banking security includes multi-factor authentication, biometric login (fingerprint, face ID), 256-bit SSL encryption, real-time fraud monitoring, transaction alerts, device registration, session timeout, and secure messaging. Additional features: mobile check deposit, bill pay, account transfers, ATM locator, spending categorization, and budget tracking. Security tips: use strong passwords, enable automatic app updates, avoid public Wi-Fi for banking, and report suspicious activity immediately.",
			Category: "security",
			Source:   "security_manual.pdf",
		},
		{
			ID:       "doc_006",
			Title:    "Mortgage Loan Process and Requirements",
			Content:  "Mortgage loan process: pre-qualification, application submission, documentation review, property appraisal, underwriting, and closing. Required documents include income verification (W-2s, pay stubs, tax returns), bank statements, credit reports, employment verification, and property documentation. Down payment requirements: conventional loans 5-20%, FHA loans 3.5%, VA loans 0%. Loan terms: 15, 20, or 30 years. Interest rates based on credit score, down payment, and market conditions. Closing costs typically 2-5% of loan amount.",
			Category: "loans",
			Source:   "mortgage_guidelines.pdf",
		},
		{
			ID:       "doc_007",
			Title:    "Business Banking Services",
			Content:  "Business banking services include business checking accounts, savings accounts, credit lines, merchant services, payroll processing, and cash management solutions. Account requirements: business license, EIN number, articles of incorporation, and business plan. Features: online banking, mobile deposits, wire transfers, ACH processing, and dedicated relationship managers. Loan products: equipment financing, working capital loans, SBA loans, and commercial real estate financing. Treasury management services for larger businesses.",
			Category: "business",
			Source:   "business_services.pdf",
		},
		{
			ID:       "doc_008",
			Title:    "Federal Banking Regulations and Compliance",
			Content:  "Key federal banking regulations include FDIC insurance requirements, Truth in Lending Act (TILA), Fair Credit Reporting Act (FCRA), Equal Credit Opportunity Act (ECOA), Bank Secrecy Act (BSA), and Anti-Money Laundering (AML) requirements. Customer identification programs (CIP) required for new accounts. Privacy notices under Gramm-Leach-Bliley Act. Regulation E covers electronic fund transfers. Regulation Z implements TILA for credit disclosures. Compliance monitoring and reporting requirements for suspicious activities.",
			Category: "regulations",
			Source:   "compliance_manual.pdf",
		},
		{
			ID:       "doc_009",
			Title:    "Interest Rates and Fee Structure",
			Content:  "Current interest rates: savings accounts 0.50%-2.50% APY, money market accounts 1.00%-3.00% APY, CDs 1.50%-4.50% APY based on term length. Loan rates: personal loans 5.99%-24.99% APR, auto loans 3.49%-15.99% APR, mortgages 6.25%-8.75% APR. Fee structure: overdraft fees $35, ATM fees $3 (out-of-network), wire transfer fees $25 domestic/$50 international, stop payment fees $30, account closure fees $25 (within 90 days).",
			Category: "rates",
			Source:   "rate_sheet.pdf",
		},
		{
			ID:       "doc_010",
			Title:    "Customer Service and Support Channels",
			Content:  "Customer service available through multiple channels: 24/7 phone support, online chat, email support, branch locations, and mobile app messaging. Specialized support teams for different services: mortgage specialists, investment advisors, business banking experts, and fraud prevention team. Self-service options: online banking, mobile app, ATM network, and FAQ resources. Response times: phone calls answered within 2 minutes, chat within 1 minute, emails within 24 hours. Customer satisfaction ratings and feedback programs.",
			Category: "support",
			Source:   "service_standards.pdf",
		},
		{
			ID:       "doc_011",
			Title:    "Cryptocurrency and Digital Asset Services",
			Content:  "Our bank now offers cryptocurrency services including Bitcoin and Ethereum trading, digital wallet management, and blockchain-based transactions. Services include: cryptocurrency buying/selling with competitive rates, secure digital wallet storage, integration with traditional banking accounts, regulatory compliance with federal guidelines, and educational resources about digital assets. Minimum investment is $100, with transaction fees of 1.5%. Available through our mobile app and online banking platform. All cryptocurrency transactions are FDIC-insured up to regulatory limits.",
			Category: "digital",
			Source:   "crypto_services.pdf",
		},
		{
			ID:       "personal_loan_guide",
			Title:    "Personal Loan Requirements and Application Process",
			Content:  "Personal Loan Requirements: Minimum age 21 years, minimum credit score 650, annual income of $30,000+, debt-to-income ratio below 40%, US citizenship or permanent residency required. Employment verification needed with 2+ years stable employment history. Required documents include: government-issued ID, Social Security card, proof of income (pay stubs, tax returns), bank statements from last 3 months, employment verification letter. Loan amounts range from $5,000 to $50,000 with terms of 2-7 years. Interest rates from 6.99% to 24.99% APR based on creditworthiness. No collateral required. Application can be completed online, by phone, or in-branch. Processing time 1-3 business days for approval, funding within 24 hours of approval. No prepayment penalties. Late payment fee $25. Origination fee 1-5% of loan amount depending on credit profile.",
			Category: "loans",
			Source:   "personal_loan_guide.pdf",
		},
		{
			ID:       "doc_012",
			Title:    "Comprehensive Financial Planning Services",
			Content:  "Financial planning services include retirement planning, college savings plans (529 plans), estate planning, tax optimization strategies, and wealth management. Our certified financial planners provide personalized consultations, portfolio analysis, risk assessment, and long-term financial goal setting. Services available for accounts with $50,000+ balance. Planning fees: $200 initial consultation, $150/hour ongoing advisory. Includes annual portfolio review, tax planning strategies, insurance analysis, and beneficiary planning.",
			Category: "planning",
			Source:   "financial_planning.pdf",
		},
	}
}
