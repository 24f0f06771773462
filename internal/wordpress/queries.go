package wordpress

const postFields = `
fragment PostFields on Post {
  title
  slug
  date
  excerpt
}
`

const queryAllPostsWithSlug = `
query AllPostsWithSlug {
  posts(first: 10000) {
    edges {
      node {
        slug
      }
    }
  }
}
`

const queryAllPostsForHome = postFields + `
query AllPostsForHome($stati: [PostStatusEnum]) {
  posts(first: 20, where: { orderby: { field: DATE, order: DESC }, stati: $stati }) {
    edges {
      node {
        ...PostFields
      }
    }
  }
}
`

const queryPreviewPost = `
query PreviewPost($id: ID!, $idType: PostIdType!) {
  post(id: $id, idType: $idType) {
    databaseId
    slug
    status
  }
}
`

// postBySlug is assembled per request because the revisions block is only
// requested while previewing changes to an already published post.
func postBySlug(withRevision bool) string {
	revisions := ""
	if withRevision {
		revisions = `
    revisions(first: 1, where: { orderby: { field: MODIFIED, order: DESC } }) {
      edges {
        node {
          title
          content
        }
      }
    }`
	}

	return postFields + `
query PostBySlug($id: ID!, $idType: PostIdType!) {
  post(id: $id, idType: $idType) {
    databaseId
    title
    content
    slug
    status` + revisions + `
  }
  posts(first: ` + morePostsFetched + `, where: { orderby: { field: DATE, order: DESC } }) {
    edges {
      node {
        ...PostFields
      }
    }
  }
}
`
}
