package shopify

// GraphQLReq POST graphql.json 请求体
type GraphQLReq struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// VariantBySKUQuery 按 sku 反查变体：REST 没有 sku 过滤，只能走 GraphQL
const VariantBySKUQuery = `query($query: String!) {
  productVariants(first: 1, query: $query) {
    edges {
      node {
        id
        sku
        inventoryItem { id }
        product { id }
      }
    }
  }
}`

// VariantBySKUResp VariantBySKUQuery 的响应（字段裁剪到够用为止）
type VariantBySKUResp struct {
	Data struct {
		ProductVariants struct {
			Edges []struct {
				Node struct {
					ID            string `json:"id"`
					SKU           string `json:"sku"`
					InventoryItem struct {
						ID string `json:"id"`
					} `json:"inventoryItem"`
					Product struct {
						ID string `json:"id"`
					} `json:"product"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"productVariants"`
	} `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

// FirstError GraphQL 在 200 里报错，调用方必须显式检查
func (r *VariantBySKUResp) FirstError() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// TaxonomySuggestQuery 按关键词搜官方类目树，用于建品前的类目建议
const TaxonomySuggestQuery = `query($search: String!) {
  taxonomy {
    categories(first: 5, search: $search) {
      edges {
        node {
          id
          fullName
          isLeaf
        }
      }
    }
  }
}`

// TaxonomyCategory 类目建议条目
type TaxonomyCategory struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	IsLeaf   bool   `json:"isLeaf"`
}

// TaxonomySuggestResp TaxonomySuggestQuery 的响应
type TaxonomySuggestResp struct {
	Data struct {
		Taxonomy struct {
			Categories struct {
				Edges []struct {
					Node TaxonomyCategory `json:"node"`
				} `json:"edges"`
			} `json:"categories"`
		} `json:"taxonomy"`
	} `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

func (r *TaxonomySuggestResp) FirstError() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// Categories 拍平建议列表
func (r *TaxonomySuggestResp) Categories() []TaxonomyCategory {
	edges := r.Data.Taxonomy.Categories.Edges
	out := make([]TaxonomyCategory, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.Node)
	}
	return out
}

// VariantRef 反查结果（已还原为 REST 可用的数字 id）
type VariantRef struct {
	VariantID       string
	ProductID       string
	InventoryItemID string
}

// Resolve 取第一条匹配，没有匹配返回 nil
func (r *VariantBySKUResp) Resolve() *VariantRef {
	edges := r.Data.ProductVariants.Edges
	if len(edges) == 0 {
		return nil
	}
	n := edges[0].Node
	return &VariantRef{
		VariantID:       GIDNumeric(n.ID),
		ProductID:       GIDNumeric(n.Product.ID),
		InventoryItemID: GIDNumeric(n.InventoryItem.ID),
	}
}
